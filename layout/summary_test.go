package layout

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlanSummaryBlock(t *testing.T) {
	expected := SummaryBlock{
		Origin:  Cell{Row: 1, Col: 0},
		Rows:    2,
		Columns: BuyerSummary().Columns,
		Caption: Range{StartRow: 0, EndRow: 1, StartCol: 0, EndCol: 1, Kind: KindCaption},
		Header:  Range{StartRow: 1, EndRow: 2, StartCol: 0, EndCol: 4, Kind: KindHeader},
		Separator: Range{
			StartRow: 2, EndRow: 3, StartCol: 0, EndCol: 4, Kind: KindSeparator,
		},
		Anchor: Cell{Row: 3, Col: 0},
		Data:   Range{StartRow: 3, EndRow: 5, StartCol: 0, EndCol: 4, Kind: KindFormula},
		Formats: []FormatRange{
			{Range: Range{StartRow: 3, EndRow: 5, StartCol: 1, EndCol: 2, Kind: KindFormat}, Format: Money},
			{Range: Range{StartRow: 3, EndRow: 5, StartCol: 2, EndCol: 3, Kind: KindFormat}, Format: Money},
			{Range: Range{StartRow: 3, EndRow: 5, StartCol: 3, EndCol: 4, Kind: KindFormat}, Format: Percent},
		},
	}

	block := PlanSummaryBlock(2, Cell{Row: 1, Col: 0}, BuyerSummary().Columns)

	if diff := cmp.Diff(expected, block); diff != "" {
		t.Errorf("Incorrect summary block (-expected +got):\n%s", diff)
	}
}

func TestPlanSummaryBlockCoversExactRowCount(t *testing.T) {
	origins := []Cell{{0, 0}, {1, 0}, {4, 2}, {10, 7}}

	for _, origin := range origins {
		for rows := 0; rows <= 250; rows++ {
			block := PlanSummaryBlock(rows, origin, CampaignPerformance(25).Columns)

			if got := block.Data.EndRow - block.Data.StartRow; got != rows {
				t.Fatalf("origin %v, %d rows: data range covers %d rows", origin, rows, got)
			}

			if block.Data.StartRow != origin.Row+2 {
				t.Fatalf("origin %v, %d rows: data starts at row %d, expected %d", origin, rows, block.Data.StartRow, origin.Row+2)
			}

			for _, f := range block.Formats {
				if f.Range.StartRow != block.Data.StartRow || f.Range.EndRow != block.Data.EndRow {
					t.Fatalf("origin %v, %d rows: format range %+v does not match data range %+v", origin, rows, f.Range, block.Data)
				}
			}
		}
	}
}

func TestPlanSummaryBlockWithNegativeRowCount(t *testing.T) {
	block := PlanSummaryBlock(-5, Cell{Row: -1, Col: -3}, BuyerSummary().Columns)

	if block.Rows != 0 {
		t.Errorf("Incorrect row count - expected:%v, got:%v", 0, block.Rows)
	}

	if block.Data.StartRow != 2 || block.Data.EndRow != 2 {
		t.Errorf("Incorrect data range for clamped block - expected:[2,2), got:[%v,%v)", block.Data.StartRow, block.Data.EndRow)
	}

	if block.Data.StartCol != 0 {
		t.Errorf("Incorrect data column for clamped block - expected:%v, got:%v", 0, block.Data.StartCol)
	}

	if !block.Caption.Empty() {
		t.Errorf("Expected no caption for block at row 0, got %+v", block.Caption)
	}
}

func TestPlanSummaryBlockForEndToEndMediaScenario(t *testing.T) {
	block := BuyerSummary().Plan(2, Cell{Row: 1})

	if block.Data.Rows() != 2 {
		t.Errorf("Incorrect formula block height - expected:%v, got:%v", 2, block.Data.Rows())
	}

	if block.Anchor != (Cell{Row: 3, Col: 0}) {
		t.Errorf("Incorrect formula anchor - expected:%v, got:%v", Cell{Row: 3}, block.Anchor)
	}

	if a1 := block.Data.A1("Report_MediaBuyerSummary"); a1 != "'Report_MediaBuyerSummary'!A4:D5" {
		t.Errorf("Incorrect data range - expected:%v, got:%v", "'Report_MediaBuyerSummary'!A4:D5", a1)
	}
}

func TestSummaryBlockLabels(t *testing.T) {
	expected := []string{"Media Buyer", "Total Revenue", "Total Spend", "ROI"}

	if labels := BuyerSummary().Plan(3, Cell{}).Labels(); !reflect.DeepEqual(labels, expected) {
		t.Errorf("Incorrect labels\n   expected: %v\n   got:      %v\n", expected, labels)
	}
}

func TestPlanSourceRange(t *testing.T) {
	tests := []struct {
		rows     int
		columns  int
		expected string
	}{
		{rows: 2, columns: MediaColumns, expected: "'Media'!A2:E3"},
		{rows: 1, columns: MediaColumns, expected: "'Media'!A2:E2"},
		{rows: 0, columns: MediaColumns, expected: "'Media'!A2:E2"},
		{rows: -3, columns: MediaColumns, expected: "'Media'!A2:E2"},
		{rows: 250, columns: CampaignColumns, expected: "'Media'!A2:H251"},
	}

	for _, test := range tests {
		r := PlanSourceRange(test.rows, test.columns)
		if r.Empty() {
			t.Errorf("%d rows: source range is empty", test.rows)
		}

		if a1 := r.A1("Media"); a1 != test.expected {
			t.Errorf("%d rows: incorrect source range - expected:%v, got:%v", test.rows, test.expected, a1)
		}
	}
}

func TestSummaryBlockDataColumn(t *testing.T) {
	tests := []struct {
		rows     int
		origin   Cell
		column   int
		expected Range
	}{
		{3, Cell{Row: 1, Col: 0}, 0, Range{StartRow: 3, EndRow: 6, StartCol: 0, EndCol: 1, Kind: KindFormula}},
		{3, Cell{Row: 1, Col: 2}, 6, Range{StartRow: 3, EndRow: 6, StartCol: 8, EndCol: 9, Kind: KindFormula}},
		{0, Cell{Row: 1, Col: 0}, 1, Range{StartRow: 3, EndRow: 4, StartCol: 1, EndCol: 2, Kind: KindFormula}},
	}

	for _, test := range tests {
		block := PlanSummaryBlock(test.rows, test.origin, CampaignPerformance(25).Columns)

		if diff := cmp.Diff(test.expected, block.DataColumn(test.column)); diff != "" {
			t.Errorf("%d rows at %v: incorrect data column %d (-expected +got):\n%s", test.rows, test.origin, test.column, diff)
		}
	}
}
