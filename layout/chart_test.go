package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlanChartRanges(t *testing.T) {
	block := BuyerSummary().Plan(3, Cell{Row: 1, Col: 0})

	header := func(col int, kind Kind) Range {
		return Range{StartRow: 1, EndRow: 2, StartCol: col, EndCol: col + 1, Kind: kind}
	}

	data := func(col int, kind Kind) Range {
		return Range{StartRow: 3, EndRow: 6, StartCol: col, EndCol: col + 1, Kind: kind}
	}

	expected := ChartSpec{
		Title:       "Revenue & Spend with ROI by Media Buyer",
		Type:        ChartCombo,
		Legend:      BottomLegend,
		HeaderCount: 1,
		Domain:      []Range{header(0, KindChartDomain), data(0, KindChartDomain)},
		Series: []ChartSeries{
			{Sources: []Range{header(1, KindChartSeries), data(1, KindChartSeries)}, Type: SeriesColumn, Axis: LeftAxis},
			{Sources: []Range{header(2, KindChartSeries), data(2, KindChartSeries)}, Type: SeriesColumn, Axis: LeftAxis},
			{Sources: []Range{header(3, KindChartSeries), data(3, KindChartSeries)}, Type: SeriesLine, Axis: RightAxis},
		},
		Anchor: Cell{Row: 0, Col: 0},
	}

	spec := BuyerSummary().PlanChart(block)

	if diff := cmp.Diff(expected, spec); diff != "" {
		t.Errorf("Incorrect chart spec (-expected +got):\n%s", diff)
	}
}

func TestPlanChartRangesWithNoRows(t *testing.T) {
	block := CampaignPerformance(25).Plan(0, Cell{Row: 1, Col: 0})
	spec := CampaignPerformance(25).PlanChart(block)

	ranges := append([]Range{}, spec.Domain...)
	for _, s := range spec.Series {
		ranges = append(ranges, s.Sources...)
	}

	for _, r := range ranges {
		if r.StartRow >= r.EndRow || r.StartCol >= r.EndCol {
			t.Errorf("Degenerate chart range %+v", r)
		}
	}

	if data := spec.Domain[1]; data.StartRow != 3 || data.EndRow != 4 || data.StartCol != 6 {
		t.Errorf("Incorrect minimal domain range - expected:[3,4)x[6,7), got:%+v", data)
	}
}

func TestPlanChartRangesFollowsBlockOrigin(t *testing.T) {
	block := CampaignPerformance(10).Plan(7, Cell{Row: 4, Col: 2})
	spec := CampaignPerformance(10).PlanChart(block)

	if h := spec.Domain[0]; h.StartRow != 4 || h.StartCol != 8 {
		t.Errorf("Incorrect domain header cell - expected:(4,8), got:(%v,%v)", h.StartRow, h.StartCol)
	}

	if d := spec.Domain[1]; d.StartRow != 6 || d.EndRow != 13 {
		t.Errorf("Incorrect domain data rows - expected:[6,13), got:[%v,%v)", d.StartRow, d.EndRow)
	}

	if len(spec.Series) != 2 {
		t.Fatalf("Incorrect number of series - expected:%v, got:%v", 2, len(spec.Series))
	}

	if s := spec.Series[1].Sources[1]; s.StartCol != 7 {
		t.Errorf("Incorrect RPL series column - expected:%v, got:%v", 7, s.StartCol)
	}

	if spec.Series[1].Type != SeriesLine {
		t.Errorf("Incorrect RPL series type - expected:%v, got:%v", SeriesLine, spec.Series[1].Type)
	}
}

func TestBuyerSummaryFormulas(t *testing.T) {
	block := BuyerSummary().Plan(2, Cell{Row: 1})
	source := PlanSourceRange(2, MediaColumns).A1("Media")

	formulas := BuyerSummaryFormulas(block, source)
	if len(formulas) != 1 {
		t.Fatalf("Incorrect number of formulas - expected:%v, got:%v", 1, len(formulas))
	}

	f := formulas[0]
	if f.At != (Cell{Row: 3, Col: 0}) {
		t.Errorf("Incorrect formula anchor - expected:%v, got:%v", Cell{Row: 3}, f.At)
	}

	for _, s := range []string{
		`=IFERROR(QUERY('Media'!A2:E3, "select Col1, sum(Col4), sum(Col5)`,
		"group by Col1",
		"label Col1 '', sum(Col4) '', sum(Col5) '', (sum(Col4)-sum(Col5))/sum(Col5) ''",
		`", 0), "")`,
	} {
		if !strings.Contains(f.Text, s) {
			t.Errorf("Formula missing %q\n   formula: %v", s, f.Text)
		}
	}
}

func TestCampaignPerformanceFormulas(t *testing.T) {
	block := CampaignPerformance(25).Plan(3, Cell{Row: 1})
	source := PlanSourceRange(40, CampaignColumns).A1("Campaigns")

	formulas := CampaignPerformanceFormulas(block, source, 25)
	if len(formulas) != 2 {
		t.Fatalf("Incorrect number of formulas - expected:%v, got:%v", 2, len(formulas))
	}

	if !strings.Contains(formulas[0].Text, "'Campaigns'!A2:H41") {
		t.Errorf("Formula does not aggregate the exact source range\n   formula: %v", formulas[0].Text)
	}

	if !strings.Contains(formulas[0].Text, "limit 25") {
		t.Errorf("Formula does not limit to top 25\n   formula: %v", formulas[0].Text)
	}

	expected := Formula{
		At:   Cell{Row: 3, Col: 6},
		Text: `=ARRAYFORMULA(IF(A4:A6="", "", A4:A6 & " | " & B4:B6 & " | " & C4:C6))`,
	}

	if formulas[1] != expected {
		t.Errorf("Incorrect campaign key formula\n   expected: %v\n   got:      %v\n", expected, formulas[1])
	}
}

func TestCampaignKeyFormulaWithNoRows(t *testing.T) {
	block := CampaignPerformance(25).Plan(0, Cell{Row: 1})
	formulas := CampaignPerformanceFormulas(block, PlanSourceRange(0, CampaignColumns).A1("Campaigns"), 0)

	if !strings.Contains(formulas[0].Text, "limit 1") {
		t.Errorf("Expected top-N to clamp to 1\n   formula: %v", formulas[0].Text)
	}

	if !strings.Contains(formulas[1].Text, "IF(A4:A4=\"\"") {
		t.Errorf("Expected single row campaign key range\n   formula: %v", formulas[1].Text)
	}
}
