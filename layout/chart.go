package layout

const (
	ChartCombo = "COMBO"
	ChartBar   = "BAR"

	SeriesColumn = "COLUMN"
	SeriesLine   = "LINE"
	SeriesBar    = "BAR"

	LeftAxis  = "LEFT_AXIS"
	RightAxis = "RIGHT_AXIS"

	BottomLegend = "BOTTOM_LEGEND"
)

// ChartAnchor is the fixed top-left cell of every chart on its chart tab.
var ChartAnchor = Cell{Row: 0, Col: 0}

// SeriesLayout selects a block column as a chart series.
type SeriesLayout struct {
	Column int
	Type   string
	Axis   string
}

// ChartLayout describes a chart over a summary block in terms of block columns.
type ChartLayout struct {
	Title  string
	Type   string
	Domain int
	Series []SeriesLayout
}

// ChartSeries is a planned series: its source ranges, concatenated in order.
type ChartSeries struct {
	Sources []Range
	Type    string
	Axis    string
}

// ChartSpec is a fully planned chart, ready to be published.
type ChartSpec struct {
	Title       string
	Type        string
	Legend      string
	HeaderCount int
	Domain      []Range
	Series      []ChartSeries
	Anchor      Cell
}

// PlanChartRanges derives the domain and series source ranges of a chart from an already
// planned block. Each source concatenates the column's header cell (the series label) with
// its data rows, skipping the blank separator. A block without data rows degrades to a
// single data row so no source range is inverted or empty.
func PlanChartRanges(block SummaryBlock, chart ChartLayout) ChartSpec {
	data := block.Data
	if data.Rows() == 0 {
		data.EndRow = data.StartRow + 1
	}

	sources := func(column int, kind Kind) []Range {
		col := block.Origin.Col + column

		return []Range{
			block.Header.Column(col, kind),
			data.Column(col, kind),
		}
	}

	spec := ChartSpec{
		Title:       chart.Title,
		Type:        chart.Type,
		Legend:      BottomLegend,
		HeaderCount: 1,
		Domain:      sources(chart.Domain, KindChartDomain),
		Series:      []ChartSeries{},
		Anchor:      ChartAnchor,
	}

	for _, s := range chart.Series {
		spec.Series = append(spec.Series, ChartSeries{
			Sources: sources(s.Column, KindChartSeries),
			Type:    s.Type,
			Axis:    s.Axis,
		})
	}

	return spec
}
