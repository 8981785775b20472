package publisher

import (
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/mediaops/jsonbin-sheets/layout"
)

func updateCells(sheet int64, at layout.Cell, cells ...*sheets.CellData) *sheets.Request {
	return &sheets.Request{
		UpdateCells: &sheets.UpdateCellsRequest{
			Start: &sheets.GridCoordinate{
				SheetId:         sheet,
				RowIndex:        int64(at.Row),
				ColumnIndex:     int64(at.Col),
				ForceSendFields: []string{"SheetId", "RowIndex", "ColumnIndex"},
			},
			Rows: []*sheets.RowData{
				{Values: cells},
			},
			Fields: "userEnteredValue",
		},
	}
}

func text(v string) *sheets.CellData {
	return &sheets.CellData{
		UserEnteredValue: &sheets.ExtendedValue{
			StringValue: &v,
		},
	}
}

func formula(v string) *sheets.CellData {
	if !strings.HasPrefix(v, "=") {
		v = "=" + v
	}

	return &sheets.CellData{
		UserEnteredValue: &sheets.ExtendedValue{
			FormulaValue: &v,
		},
	}
}

func bold(sheet int64, r layout.Range) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: gridRange(sheet, r),
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{
						Bold: true,
					},
				},
			},
			Fields: "userEnteredFormat.textFormat.bold",
		},
	}
}

func gridRange(sheet int64, r layout.Range) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheet,
		StartRowIndex:    int64(r.StartRow),
		EndRowIndex:      int64(r.EndRow),
		StartColumnIndex: int64(r.StartCol),
		EndColumnIndex:   int64(r.EndCol),
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

func chartData(sheet int64, ranges []layout.Range) *sheets.ChartData {
	sources := []*sheets.GridRange{}
	for _, r := range ranges {
		sources = append(sources, gridRange(sheet, r))
	}

	return &sheets.ChartData{
		SourceRange: &sheets.ChartSourceRange{
			Sources: sources,
		},
	}
}

// chart converts a planned chart over the source tab into an embedded chart anchored on
// the chart tab.
func chart(source int64, anchor int64, spec layout.ChartSpec) *sheets.EmbeddedChart {
	basic := sheets.BasicChartSpec{
		ChartType:      spec.Type,
		LegendPosition: spec.Legend,
		HeaderCount:    int64(spec.HeaderCount),
		Domains: []*sheets.BasicChartDomain{
			{Domain: chartData(source, spec.Domain)},
		},
		Series: []*sheets.BasicChartSeries{},
	}

	for _, s := range spec.Series {
		basic.Series = append(basic.Series, &sheets.BasicChartSeries{
			Series:     chartData(source, s.Sources),
			Type:       s.Type,
			TargetAxis: s.Axis,
		})
	}

	return &sheets.EmbeddedChart{
		Spec: &sheets.ChartSpec{
			Title:      spec.Title,
			BasicChart: &basic,
		},
		Position: &sheets.EmbeddedObjectPosition{
			OverlayPosition: &sheets.OverlayPosition{
				AnchorCell: &sheets.GridCoordinate{
					SheetId:         anchor,
					RowIndex:        int64(spec.Anchor.Row),
					ColumnIndex:     int64(spec.Anchor.Col),
					ForceSendFields: []string{"SheetId", "RowIndex", "ColumnIndex"},
				},
			},
		},
	}
}

func renameTab(sheet int64, title string) *sheets.Request {
	return &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:         sheet,
				Title:           title,
				ForceSendFields: []string{"SheetId"},
			},
			Fields: "title",
		},
	}
}

func addTab(title string) *sheets.Request {
	return &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: title,
			},
		},
	}
}

// clearTab clears the values and formats of every cell in a tab. A grid range with only
// a sheet ID spans the whole sheet.
func clearTab(sheet int64) *sheets.Request {
	return &sheets.Request{
		UpdateCells: &sheets.UpdateCellsRequest{
			Range: &sheets.GridRange{
				SheetId:         sheet,
				ForceSendFields: []string{"SheetId"},
			},
			Fields: "userEnteredValue,userEnteredFormat",
		},
	}
}

func deleteChart(id int64) *sheets.Request {
	return &sheets.Request{
		DeleteEmbeddedObject: &sheets.DeleteEmbeddedObjectRequest{
			ObjectId:        id,
			ForceSendFields: []string{"ObjectId"},
		},
	}
}
