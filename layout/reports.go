package layout

import (
	"fmt"
	"strings"
)

// Report is a summary report: its title, block columns and chart.
type Report struct {
	Title   string
	Columns []ColumnSpec
	Chart   ChartLayout
}

// Formula is a formula placed at a cell.
type Formula struct {
	At   Cell
	Text string
}

// Media tab columns, as aggregated by the buyer summary (QUERY Col1, Col4, Col5).
const MediaColumns = 5

// Campaign tab columns, as aggregated by the campaign performance report
// (QUERY Col1..Col3 grouped, Col5 revenue, Col6 leads).
const CampaignColumns = 8

// Block column of the campaign key (Platform | Offer | Country), used as the chart domain.
const campaignKey = 6

func BuyerSummary() Report {
	return Report{
		Title: "Media Buyer Summary (Revenue, Spend, ROI)",
		Columns: []ColumnSpec{
			{Label: "Media Buyer"},
			{Label: "Total Revenue", Format: &Money},
			{Label: "Total Spend", Format: &Money},
			{Label: "ROI", Format: &Percent},
		},
		Chart: ChartLayout{
			Title:  "Revenue & Spend with ROI by Media Buyer",
			Type:   ChartCombo,
			Domain: 0,
			Series: []SeriesLayout{
				{Column: 1, Type: SeriesColumn, Axis: LeftAxis},
				{Column: 2, Type: SeriesColumn, Axis: LeftAxis},
				{Column: 3, Type: SeriesLine, Axis: RightAxis},
			},
		},
	}
}

func CampaignPerformance(topN int) Report {
	return Report{
		Title: fmt.Sprintf("Campaign Performance (Revenue, Leads, RPL) - Top %d", topN),
		Columns: []ColumnSpec{
			{Label: "Platform"},
			{Label: "Offer"},
			{Label: "Country"},
			{Label: "Total Revenue", Format: &Money},
			{Label: "Total Leads", Format: &Count},
			{Label: "RPL", Format: &Money},
			{Label: "Campaign"},
		},
		Chart: ChartLayout{
			Title:  "Top Campaigns by Revenue (Platform | Offer | Country)",
			Type:   ChartBar,
			Domain: campaignKey,
			Series: []SeriesLayout{
				{Column: 3, Type: SeriesBar},
				{Column: 5, Type: SeriesLine},
			},
		},
	}
}

func (r Report) Plan(rows int, origin Cell) SummaryBlock {
	return PlanSummaryBlock(rows, origin, r.Columns)
}

func (r Report) PlanChart(block SummaryBlock) ChartSpec {
	return PlanChartRanges(block, r.Chart)
}

// BuyerSummaryFormulas returns the aggregation formula for the buyer summary. All QUERY
// labels are blanked so the output has no header row and spills exactly one row per buyer
// into the block's data range.
func BuyerSummaryFormulas(block SummaryBlock, source string) []Formula {
	roi := "(sum(Col4)-sum(Col5))/sum(Col5)"
	query := strings.Join([]string{
		fmt.Sprintf("select Col1, sum(Col4), sum(Col5), %s", roi),
		"where Col1 is not null",
		"group by Col1",
		fmt.Sprintf("order by %s desc", roi),
		fmt.Sprintf("label Col1 '', sum(Col4) '', sum(Col5) '', %s ''", roi),
	}, " ")

	return []Formula{
		{At: block.Anchor, Text: fmt.Sprintf(`=IFERROR(QUERY(%s, "%s", 0), "")`, source, query)},
	}
}

// CampaignPerformanceFormulas returns the top-N campaign aggregation plus the composite
// campaign key column, both confined to the block's exact data range.
func CampaignPerformanceFormulas(block SummaryBlock, source string, topN int) []Formula {
	if topN < 1 {
		topN = 1
	}

	query := strings.Join([]string{
		"select Col1, Col2, Col3, sum(Col5), sum(Col6), sum(Col5)/sum(Col6)",
		"where Col1 is not null",
		"group by Col1, Col2, Col3",
		fmt.Sprintf("order by sum(Col5) desc limit %d", topN),
		"label Col1 '', Col2 '', Col3 '', sum(Col5) '', sum(Col6) '', sum(Col5)/sum(Col6) ''",
	}, " ")

	platform := block.DataColumn(0).Ref()
	offer := block.DataColumn(1).Ref()
	country := block.DataColumn(2).Ref()
	key := fmt.Sprintf(`=ARRAYFORMULA(IF(%s="", "", %s & " | " & %s & " | " & %s))`, platform, platform, offer, country)

	return []Formula{
		{At: block.Anchor, Text: fmt.Sprintf(`=IFERROR(QUERY(%s, "%s", 0), "")`, source, query)},
		{At: block.DataColumn(campaignKey).Start(), Text: key},
	}
}
