package layout

// NumberFormat is a Sheets number format (type + pattern).
type NumberFormat struct {
	Type    string
	Pattern string
}

var (
	Money   = NumberFormat{Type: "NUMBER", Pattern: "#,##0.00"}
	Count   = NumberFormat{Type: "NUMBER", Pattern: "#,##0"}
	Percent = NumberFormat{Type: "PERCENT", Pattern: "0.00%"}
)

// ColumnSpec describes one column of a summary block. A nil Format leaves the column
// formatted as the provider defaults (text).
type ColumnSpec struct {
	Label  string
	Format *NumberFormat
}

// FormatRange is a number format applied to one column of a block's data rows.
type FormatRange struct {
	Range  Range
	Format NumberFormat
}

// SummaryBlock is the geometry of one summary report placed on a tab:
//
//	origin-1   caption (report title, only when origin > 0)
//	origin     header (column labels)
//	origin+1   blank separator
//	origin+2   formula anchor, first data row
//	...        exactly Rows data rows
type SummaryBlock struct {
	Origin    Cell
	Rows      int
	Columns   []ColumnSpec
	Caption   Range
	Header    Range
	Separator Range
	Anchor    Cell
	Data      Range
	Formats   []FormatRange
}

// PlanSummaryBlock computes the block geometry for rowCount data rows at origin. The data
// range always covers exactly rowCount rows so formulas and formats never overrun or
// truncate the aggregated output. Negative counts and origins clamp to zero.
func PlanSummaryBlock(rowCount int, origin Cell, columns []ColumnSpec) SummaryBlock {
	if rowCount < 0 {
		rowCount = 0
	}

	if origin.Row < 0 {
		origin.Row = 0
	}

	if origin.Col < 0 {
		origin.Col = 0
	}

	width := len(columns)
	if width == 0 {
		width = 1
	}

	left := origin.Col
	right := origin.Col + width
	top := origin.Row + 2

	block := SummaryBlock{
		Origin:  origin,
		Rows:    rowCount,
		Columns: columns,
		Header: Range{
			StartRow: origin.Row,
			EndRow:   origin.Row + 1,
			StartCol: left,
			EndCol:   right,
			Kind:     KindHeader,
		},
		Separator: Range{
			StartRow: origin.Row + 1,
			EndRow:   origin.Row + 2,
			StartCol: left,
			EndCol:   right,
			Kind:     KindSeparator,
		},
		Anchor: Cell{Row: top, Col: left},
		Data: Range{
			StartRow: top,
			EndRow:   top + rowCount,
			StartCol: left,
			EndCol:   right,
			Kind:     KindFormula,
		},
		Formats: []FormatRange{},
	}

	if origin.Row > 0 {
		block.Caption = Range{
			StartRow: origin.Row - 1,
			EndRow:   origin.Row,
			StartCol: left,
			EndCol:   left + 1,
			Kind:     KindCaption,
		}
	}

	for i, c := range columns {
		if c.Format != nil {
			block.Formats = append(block.Formats, FormatRange{
				Range:  block.Data.Column(left+i, KindFormat),
				Format: *c.Format,
			})
		}
	}

	return block
}

// Labels returns the header row values.
func (b SummaryBlock) Labels() []string {
	labels := make([]string, len(b.Columns))
	for i, c := range b.Columns {
		labels[i] = c.Label
	}

	return labels
}

// DataColumn returns the data range of the i'th block column. An empty block degrades to
// its first data row so that references to the column stay valid.
func (b SummaryBlock) DataColumn(i int) Range {
	data := b.Data
	if data.Rows() == 0 {
		data.EndRow = data.StartRow + 1
	}

	return data.Column(b.Origin.Col+i, KindFormula)
}

// PlanSourceRange returns the range of a raw data tab a summary formula aggregates:
// the header row is skipped and exactly dataRows rows are covered. An empty tab degrades
// to the single row below the header so the reference stays valid.
func PlanSourceRange(dataRows int, columns int) Range {
	if dataRows < 1 {
		dataRows = 1
	}

	if columns < 1 {
		columns = 1
	}

	return Range{
		StartRow: 1,
		EndRow:   1 + dataRows,
		StartCol: 0,
		EndCol:   columns,
		Kind:     KindSource,
	}
}
