// Package fake implements an in-memory Drive and Sheets backend for tests.
package fake

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/mediaops/jsonbin-sheets/publisher"
)

type Cell struct {
	Row int
	Col int
}

type Sheet struct {
	ID      int64
	Title   string
	Values  map[Cell]any
	Formats []*sheets.RepeatCellRequest
	Charts  []*sheets.EmbeddedChart
}

type Spreadsheet struct {
	ID      string
	Title   string
	Parents []string
	Sheets  []*Sheet
	next    int64
}

// Google is an in-memory stand-in for the Drive and Sheets APIs. Fail maps an operation
// (e.g. "drive.delete", "sheets.copyTo") to the error it should return.
type Google struct {
	Spreadsheets map[string]*Spreadsheet
	Calls        []string
	Fail         map[string]error
	next         int
}

var _ publisher.Drive = (*Google)(nil)
var _ publisher.Sheets = (*Google)(nil)

func New() *Google {
	return &Google{
		Spreadsheets: map[string]*Spreadsheet{},
		Calls:        []string{},
		Fail:         map[string]error{},
	}
}

// AddSpreadsheet creates a spreadsheet with a single default tab and returns its ID.
func (g *Google) AddSpreadsheet(name, folder string) string {
	g.next++

	id := fmt.Sprintf("ss-%03d", g.next)
	g.Spreadsheets[id] = &Spreadsheet{
		ID:      id,
		Title:   name,
		Parents: []string{folder},
		Sheets: []*Sheet{
			{ID: 0, Title: "Sheet1", Values: map[Cell]any{}},
		},
		next: 1,
	}

	return id
}

func (g *Google) Sheet(id, title string) *Sheet {
	if ss, ok := g.Spreadsheets[id]; ok {
		for _, s := range ss.Sheets {
			if s.Title == title {
				return s
			}
		}
	}

	return nil
}

// Titles returns the tab titles of a spreadsheet in order.
func (g *Google) Titles(id string) []string {
	titles := []string{}
	if ss, ok := g.Spreadsheets[id]; ok {
		for _, s := range ss.Sheets {
			titles = append(titles, s.Title)
		}
	}

	return titles
}

// Count returns the number of calls made for an operation.
func (g *Google) Count(op string) int {
	count := 0
	for _, c := range g.Calls {
		if c == op {
			count++
		}
	}

	return count
}

func (g *Google) call(op string) error {
	g.Calls = append(g.Calls, op)

	return g.Fail[op]
}

func (g *Google) Find(ctx context.Context, name, folder string) ([]publisher.File, error) {
	if err := g.call("drive.find"); err != nil {
		return nil, err
	}

	ids := []string{}
	for id := range g.Spreadsheets {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	files := []publisher.File{}
	for _, id := range ids {
		ss := g.Spreadsheets[id]
		if ss.Title == name && slices.Contains(ss.Parents, folder) {
			files = append(files, publisher.File{ID: ss.ID, Name: ss.Title, Parents: append([]string{}, ss.Parents...)})
		}
	}

	return files, nil
}

func (g *Google) Delete(ctx context.Context, id string) error {
	if err := g.call("drive.delete"); err != nil {
		return err
	}

	if _, ok := g.Spreadsheets[id]; !ok {
		return fmt.Errorf("file %v not found", id)
	}

	delete(g.Spreadsheets, id)

	return nil
}

func (g *Google) Create(ctx context.Context, name, folder string) (publisher.File, error) {
	if err := g.call("drive.create"); err != nil {
		return publisher.File{}, err
	}

	id := g.AddSpreadsheet(name, folder)

	return publisher.File{ID: id, Name: name, Parents: []string{folder}}, nil
}

func (g *Google) Get(ctx context.Context, id string) (*sheets.Spreadsheet, error) {
	if err := g.call("sheets.get"); err != nil {
		return nil, err
	}

	ss, ok := g.Spreadsheets[id]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %v not found", id)
	}

	spreadsheet := sheets.Spreadsheet{
		SpreadsheetId: ss.ID,
		Properties:    &sheets.SpreadsheetProperties{Title: ss.Title},
	}

	for i, s := range ss.Sheets {
		charts := []*sheets.EmbeddedChart{}
		for _, c := range s.Charts {
			charts = append(charts, &sheets.EmbeddedChart{ChartId: c.ChartId})
		}

		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{
				SheetId: s.ID,
				Title:   s.Title,
				Index:   int64(i),
			},
			Charts: charts,
		})
	}

	return &spreadsheet, nil
}

// BatchUpdate applies the requests in order. Like the real API the batch is atomic: a
// failing request leaves the spreadsheet unchanged.
func (g *Google) BatchUpdate(ctx context.Context, id string, requests ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	if err := g.call("sheets.batchUpdate"); err != nil {
		return nil, err
	}

	original, ok := g.Spreadsheets[id]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %v not found", id)
	}

	ss := original.clone()
	response := sheets.BatchUpdateSpreadsheetResponse{SpreadsheetId: id}

	for _, rq := range requests {
		reply, err := ss.apply(rq)
		if err != nil {
			return nil, err
		}

		response.Replies = append(response.Replies, reply)
	}

	g.Spreadsheets[id] = ss

	return &response, nil
}

func (g *Google) UpdateValues(ctx context.Context, id string, area string, values [][]any) error {
	if err := g.call("sheets.updateValues"); err != nil {
		return err
	}

	ss, ok := g.Spreadsheets[id]
	if !ok {
		return fmt.Errorf("spreadsheet %v not found", id)
	}

	title, start, err := parse(area)
	if err != nil {
		return err
	}

	sheet := ss.sheet(title)
	if sheet == nil {
		return fmt.Errorf("unable to parse range: %v", area)
	}

	for r, row := range values {
		for c, v := range row {
			sheet.Values[Cell{Row: start.Row + r, Col: start.Col + c}] = v
		}
	}

	return nil
}

// GetValues returns the values of a whole tab e.g. 'Media', from A1 to the last non-empty
// cell. Like the real API trailing empty cells are omitted from each row.
func (g *Google) GetValues(ctx context.Context, id string, area string) ([][]any, error) {
	if err := g.call("sheets.getValues"); err != nil {
		return nil, err
	}

	ss, ok := g.Spreadsheets[id]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %v not found", id)
	}

	title := unquote(area)
	sheet := ss.sheet(title)
	if sheet == nil {
		return nil, fmt.Errorf("unable to parse range: %v", area)
	}

	rows := 0
	cols := map[int]int{}
	for k, v := range sheet.Values {
		if v == nil || v == "" {
			continue
		}

		rows = max(rows, k.Row+1)
		cols[k.Row] = max(cols[k.Row], k.Col+1)
	}

	values := [][]any{}
	for r := 0; r < rows; r++ {
		row := []any{}
		for c := 0; c < cols[r]; c++ {
			if v, ok := sheet.Values[Cell{Row: r, Col: c}]; ok && v != nil {
				row = append(row, v)
			} else {
				row = append(row, "")
			}
		}

		values = append(values, row)
	}

	return values, nil
}

// CopyTo copies the values and formats of a tab, but not its charts, naming the copy
// "Copy of <title>".
func (g *Google) CopyTo(ctx context.Context, id string, sheetID int64, destination string) (*sheets.SheetProperties, error) {
	if err := g.call("sheets.copyTo"); err != nil {
		return nil, err
	}

	src, ok := g.Spreadsheets[id]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %v not found", id)
	}

	dest, ok := g.Spreadsheets[destination]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %v not found", destination)
	}

	var sheet *Sheet
	for _, s := range src.Sheets {
		if s.ID == sheetID {
			sheet = s
		}
	}

	if sheet == nil {
		return nil, fmt.Errorf("no sheet with id %v", sheetID)
	}

	title := "Copy of " + sheet.Title
	for n := 2; dest.sheet(title) != nil; n++ {
		title = fmt.Sprintf("Copy of %v %d", sheet.Title, n)
	}

	copied := sheet.clone()
	copied.ID = dest.next
	copied.Title = title
	copied.Charts = nil

	dest.next++
	dest.Sheets = append(dest.Sheets, copied)

	return &sheets.SheetProperties{
		SheetId: copied.ID,
		Title:   copied.Title,
		Index:   int64(len(dest.Sheets) - 1),
	}, nil
}

func (ss *Spreadsheet) sheet(title string) *Sheet {
	for _, s := range ss.Sheets {
		if s.Title == title {
			return s
		}
	}

	return nil
}

func (ss *Spreadsheet) byID(id int64) *Sheet {
	for _, s := range ss.Sheets {
		if s.ID == id {
			return s
		}
	}

	return nil
}

func (ss *Spreadsheet) apply(rq *sheets.Request) (*sheets.Response, error) {
	switch {
	case rq.UpdateSheetProperties != nil:
		p := rq.UpdateSheetProperties.Properties
		sheet := ss.byID(p.SheetId)
		if sheet == nil {
			return nil, fmt.Errorf("no sheet with id %v", p.SheetId)
		}

		if other := ss.sheet(p.Title); other != nil && other != sheet {
			return nil, fmt.Errorf("a sheet with the name %q already exists", p.Title)
		}

		sheet.Title = p.Title

		return &sheets.Response{}, nil

	case rq.AddSheet != nil:
		title := rq.AddSheet.Properties.Title
		if ss.sheet(title) != nil {
			return nil, fmt.Errorf("a sheet with the name %q already exists", title)
		}

		sheet := Sheet{ID: ss.next, Title: title, Values: map[Cell]any{}}
		ss.next++
		ss.Sheets = append(ss.Sheets, &sheet)

		return &sheets.Response{
			AddSheet: &sheets.AddSheetResponse{
				Properties: &sheets.SheetProperties{SheetId: sheet.ID, Title: sheet.Title},
			},
		}, nil

	case rq.DeleteSheet != nil:
		id := rq.DeleteSheet.SheetId
		if ss.byID(id) == nil {
			return nil, fmt.Errorf("no sheet with id %v", id)
		}

		if len(ss.Sheets) == 1 {
			return nil, fmt.Errorf("cannot delete the only sheet %v", id)
		}

		ss.Sheets = slices.DeleteFunc(ss.Sheets, func(s *Sheet) bool { return s.ID == id })

		return &sheets.Response{}, nil

	case rq.DeleteEmbeddedObject != nil:
		id := rq.DeleteEmbeddedObject.ObjectId
		for _, sheet := range ss.Sheets {
			if ix := slices.IndexFunc(sheet.Charts, func(c *sheets.EmbeddedChart) bool { return c.ChartId == id }); ix >= 0 {
				sheet.Charts = slices.Delete(sheet.Charts, ix, ix+1)

				return &sheets.Response{}, nil
			}
		}

		return nil, fmt.Errorf("no embedded object with id %v", id)

	case rq.UpdateCells != nil && rq.UpdateCells.Range != nil:
		r := rq.UpdateCells.Range
		sheet := ss.byID(r.SheetId)
		if sheet == nil {
			return nil, fmt.Errorf("no sheet with id %v", r.SheetId)
		}

		if r.EndRowIndex != 0 || r.EndColumnIndex != 0 || len(rq.UpdateCells.Rows) != 0 {
			return nil, fmt.Errorf("unsupported update %+v", *rq.UpdateCells)
		}

		fields := strings.Split(rq.UpdateCells.Fields, ",")
		if slices.Contains(fields, "userEnteredValue") {
			sheet.Values = map[Cell]any{}
		}

		if slices.Contains(fields, "userEnteredFormat") {
			sheet.Formats = nil
		}

		return &sheets.Response{}, nil

	case rq.UpdateCells != nil:
		start := rq.UpdateCells.Start
		sheet := ss.byID(start.SheetId)
		if sheet == nil {
			return nil, fmt.Errorf("no sheet with id %v", start.SheetId)
		}

		for r, row := range rq.UpdateCells.Rows {
			for c, cell := range row.Values {
				at := Cell{Row: int(start.RowIndex) + r, Col: int(start.ColumnIndex) + c}
				if v := cell.UserEnteredValue; v != nil && v.FormulaValue != nil {
					sheet.Values[at] = *v.FormulaValue
				} else if v != nil && v.StringValue != nil {
					sheet.Values[at] = *v.StringValue
				}
			}
		}

		return &sheets.Response{}, nil

	case rq.RepeatCell != nil:
		r := rq.RepeatCell.Range
		sheet := ss.byID(r.SheetId)
		if sheet == nil {
			return nil, fmt.Errorf("no sheet with id %v", r.SheetId)
		}

		if r.EndRowIndex <= r.StartRowIndex || r.EndColumnIndex <= r.StartColumnIndex {
			return nil, fmt.Errorf("invalid range %+v", *r)
		}

		sheet.Formats = append(sheet.Formats, rq.RepeatCell)

		return &sheets.Response{}, nil

	case rq.AddChart != nil:
		anchor := rq.AddChart.Chart.Position.OverlayPosition.AnchorCell
		sheet := ss.byID(anchor.SheetId)
		if sheet == nil {
			return nil, fmt.Errorf("no sheet with id %v", anchor.SheetId)
		}

		for _, ranges := range chartRanges(rq.AddChart.Chart.Spec) {
			for _, r := range ranges {
				if ss.byID(r.SheetId) == nil {
					return nil, fmt.Errorf("no sheet with id %v", r.SheetId)
				}

				if r.EndRowIndex <= r.StartRowIndex || r.EndColumnIndex <= r.StartColumnIndex {
					return nil, fmt.Errorf("invalid chart range %+v", *r)
				}
			}
		}

		chart := *rq.AddChart.Chart
		chart.ChartId = ss.next
		ss.next++

		sheet.Charts = append(sheet.Charts, &chart)

		return &sheets.Response{
			AddChart: &sheets.AddChartResponse{
				Chart: &sheets.EmbeddedChart{ChartId: chart.ChartId},
			},
		}, nil
	}

	return nil, fmt.Errorf("unsupported request %+v", *rq)
}

func chartRanges(spec *sheets.ChartSpec) [][]*sheets.GridRange {
	ranges := [][]*sheets.GridRange{}
	if spec == nil || spec.BasicChart == nil {
		return ranges
	}

	for _, d := range spec.BasicChart.Domains {
		ranges = append(ranges, d.Domain.SourceRange.Sources)
	}

	for _, s := range spec.BasicChart.Series {
		ranges = append(ranges, s.Series.SourceRange.Sources)
	}

	return ranges
}

func (ss *Spreadsheet) clone() *Spreadsheet {
	c := *ss
	c.Parents = append([]string{}, ss.Parents...)
	c.Sheets = []*Sheet{}

	for _, s := range ss.Sheets {
		c.Sheets = append(c.Sheets, s.clone())
	}

	return &c
}

func (s *Sheet) clone() *Sheet {
	c := *s
	c.Values = map[Cell]any{}
	c.Formats = append([]*sheets.RepeatCellRequest{}, s.Formats...)
	c.Charts = append([]*sheets.EmbeddedChart{}, s.Charts...)

	for k, v := range s.Values {
		c.Values[k] = v
	}

	return &c
}

var a1 = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// parse splits an A1 area e.g. 'Media'!A1 into the tab title and its start cell.
func parse(area string) (string, Cell, error) {
	ix := strings.LastIndex(area, "!")
	if ix < 0 {
		return "", Cell{}, fmt.Errorf("invalid range %v", area)
	}

	title := unquote(area[:ix])

	start, _, _ := strings.Cut(area[ix+1:], ":")
	match := a1.FindStringSubmatch(start)
	if match == nil {
		return "", Cell{}, fmt.Errorf("invalid range %v", area)
	}

	col := 0
	for _, ch := range match[1] {
		col = col*26 + int(ch-'A') + 1
	}

	row, err := strconv.Atoi(match[2])
	if err != nil || row < 1 {
		return "", Cell{}, fmt.Errorf("invalid range %v", area)
	}

	return title, Cell{Row: row - 1, Col: col - 1}, nil
}

func unquote(title string) string {
	if strings.HasPrefix(title, "'") && strings.HasSuffix(title, "'") && len(title) > 1 {
		return strings.ReplaceAll(title[1:len(title)-1], "''", "'")
	}

	return title
}
