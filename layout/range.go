package layout

import (
	"fmt"
	"strings"
)

// Kind identifies what a computed range is used for.
type Kind int

const (
	KindHeader Kind = iota
	KindSeparator
	KindFormula
	KindFormat
	KindChartDomain
	KindChartSeries
	KindSource
	KindCaption
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindSeparator:
		return "separator"
	case KindFormula:
		return "formula"
	case KindFormat:
		return "format"
	case KindChartDomain:
		return "chart-domain"
	case KindChartSeries:
		return "chart-series"
	case KindSource:
		return "source"
	case KindCaption:
		return "caption"
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Cell is a 0-based row/column coordinate.
type Cell struct {
	Row int
	Col int
}

// A1 returns the cell in A1 notation e.g. 'Media'!B3.
func (c Cell) A1(tab string) string {
	return fmt.Sprintf("%s!%s%d", quote(tab), Column(c.Col), c.Row+1)
}

// Sheet returns the A1 notation for a whole tab e.g. 'Media'.
func Sheet(tab string) string {
	return quote(tab)
}

// Range is a half-open block of cells [StartRow,EndRow) x [StartCol,EndCol) with 0-based indices,
// i.e. the same convention as the Sheets API GridRange.
type Range struct {
	StartRow int
	EndRow   int
	StartCol int
	EndCol   int
	Kind     Kind
}

func (r Range) Rows() int {
	if r.EndRow > r.StartRow {
		return r.EndRow - r.StartRow
	}

	return 0
}

func (r Range) Cols() int {
	if r.EndCol > r.StartCol {
		return r.EndCol - r.StartCol
	}

	return 0
}

// Empty is true for zero-height or zero-width ranges, which the Sheets API rejects
// for formats and chart sources.
func (r Range) Empty() bool {
	return r.Rows() == 0 || r.Cols() == 0
}

func (r Range) Start() Cell {
	return Cell{Row: r.StartRow, Col: r.StartCol}
}

// A1 returns the range in A1 notation e.g. 'Media'!A2:E7. Empty ranges are rendered as
// the single start cell.
func (r Range) A1(tab string) string {
	return quote(tab) + "!" + r.Ref()
}

// Ref returns the range in A1 notation without a tab prefix e.g. A3:A7, for references
// within the same tab.
func (r Range) Ref() string {
	if r.Empty() {
		return fmt.Sprintf("%s%d", Column(r.StartCol), r.StartRow+1)
	}

	return fmt.Sprintf("%s%d:%s%d", Column(r.StartCol), r.StartRow+1, Column(r.EndCol-1), r.EndRow)
}

// Column returns the range restricted to a single column, keeping the row extent.
func (r Range) Column(col int, kind Kind) Range {
	return Range{
		StartRow: r.StartRow,
		EndRow:   r.EndRow,
		StartCol: col,
		EndCol:   col + 1,
		Kind:     kind,
	}
}

// Column converts a 0-based column index to its letter form (0 => A, 26 => AA).
func Column(index int) string {
	if index < 0 {
		index = 0
	}

	s := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		s = string(rune('A'+(n-1)%26)) + s
	}

	return s
}

func quote(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}
