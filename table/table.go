package table

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Record is a single flat source row as decoded from a JSONBin bin.
type Record = map[string]any

// Table is a rectangular table: a header row plus data rows with one cell per header
// column. A nil cell is a null and is published as an empty cell.
type Table struct {
	Header []string
	Rows   [][]any
}

// FromValues builds a table from a grid of cell values as read back from a spreadsheet: the
// first row is the header and every row is padded or cut to the header width. Empty cells
// become nulls.
func FromValues(values [][]any) *Table {
	t := Table{
		Header: []string{},
		Rows:   [][]any{},
	}

	if len(values) == 0 {
		return &t
	}

	for _, v := range values[0] {
		t.Header = append(t.Header, text(v))
	}

	for _, row := range values[1:] {
		r := make([]any, len(t.Header))
		for i := range r {
			if i < len(row) {
				if v := cell(row[i]); v != "" {
					r[i] = v
				}
			}
		}

		t.Rows = append(t.Rows, r)
	}

	return &t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Rows)
}

// Index returns the position of a column, matched the same way source fields are.
func (t *Table) Index(column string) (int, bool) {
	k := normalise(column)
	for i, h := range t.Header {
		if normalise(h) == k {
			return i, true
		}
	}

	return -1, false
}

// Records converts the table back into records keyed by header.
func (t *Table) Records() []Record {
	records := []Record{}
	for _, row := range t.Rows {
		record := Record{}
		for i, h := range t.Header {
			if i < len(row) {
				record[h] = row[i]
			}
		}

		records = append(records, record)
	}

	return records
}

// Distinct counts the distinct combinations of the given columns over rows whose first
// column is not empty, i.e. the groups a 'where Col1 is not null group by ...' query
// produces.
func (t *Table) Distinct(columns ...string) int {
	if t == nil || len(columns) == 0 {
		return 0
	}

	index := []int{}
	for _, c := range columns {
		ix, ok := t.Index(c)
		if !ok {
			return 0
		}

		index = append(index, ix)
	}

	keys := map[string]struct{}{}
	for _, row := range t.Rows {
		key := make([]string, len(index))
		for i, ix := range index {
			key[i] = text(row[ix])
		}

		if key[0] == "" {
			continue
		}

		keys[strings.Join(key, "\x1f")] = struct{}{}
	}

	return len(keys)
}

// schema is a fixed, ordered set of canonical columns with the source field each one is
// renamed from.
type schema struct {
	columns []string
	renames map[string]string
	numeric map[string]bool
}

func (s schema) normalize(records []Record) *Table {
	// ... build index of source and canonical field names
	index := map[string]string{}
	for _, c := range s.columns {
		index[normalise(c)] = c
	}

	for from, to := range s.renames {
		index[normalise(from)] = to
	}

	// ... header
	header := append([]string{}, s.columns...)
	position := map[string]int{}
	for i, h := range header {
		position[h] = i
	}

	extra := map[string]string{}
	for _, record := range records {
		for k := range record {
			key := normalise(k)
			if _, ok := index[key]; ok {
				continue
			}

			if v, ok := extra[key]; !ok || k < v {
				extra[key] = k
			}
		}
	}

	extras := []string{}
	for _, v := range extra {
		extras = append(extras, v)
	}

	sort.Strings(extras)

	for _, v := range extras {
		position[v] = len(header)
		index[normalise(v)] = v
		header = append(header, v)
	}

	// ... rows
	rows := [][]any{}
	for _, record := range records {
		row := make([]any, len(header))
		exact := make([]bool, len(header))

		keys := []string{}
		for k := range record {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			column := index[normalise(k)]
			ix := position[column]

			// a field spelled exactly as its column wins over a renamed alias
			if exact[ix] {
				continue
			}

			exact[ix] = normalise(k) == normalise(column)

			if s.numeric[column] {
				row[ix] = Numeric(record[k])
			} else {
				row[ix] = cell(record[k])
			}
		}

		rows = append(rows, row)
	}

	return &Table{
		Header: header,
		Rows:   rows,
	}
}

// cell reduces a decoded JSON value to a scalar. Nested values are kept as their JSON text.
func cell(v any) any {
	switch x := v.(type) {
	case nil, float64, bool:
		return x

	case string:
		return clean(x)

	case map[string]any, []any:
		if b, err := json.Marshal(x); err == nil {
			return string(b)
		}

		return nil

	default:
		return fmt.Sprintf("%v", x)
	}
}

func text(v any) string {
	if v == nil {
		return ""
	}

	return clean(fmt.Sprintf("%v", v))
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(clean(v)))
}
