package publisher

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/mediaops/jsonbin-sheets/layout"
	"github.com/mediaops/jsonbin-sheets/metrics"
	"github.com/mediaops/jsonbin-sheets/table"
)

var ErrTabExists = errors.New("tab already exists")
var ErrNoSuchTab = errors.New("no such tab")

// File is a Drive file, as much of it as the publisher needs.
type File struct {
	ID      string
	Name    string
	Parents []string
}

// Drive is the file level capability used to find, delete and create spreadsheets.
type Drive interface {
	Find(ctx context.Context, name, folder string) ([]File, error)
	Delete(ctx context.Context, id string) error
	Create(ctx context.Context, name, folder string) (File, error)
}

// Sheets is the spreadsheet level capability. Each method is a single remote round trip.
type Sheets interface {
	Get(ctx context.Context, id string) (*sheets.Spreadsheet, error)
	BatchUpdate(ctx context.Context, id string, requests ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error)
	UpdateValues(ctx context.Context, id string, area string, values [][]any) error
	GetValues(ctx context.Context, id string, area string) ([][]any, error)
	CopyTo(ctx context.Context, id string, sheetID int64, destination string) (*sheets.SheetProperties, error)
}

type Publisher struct {
	drive   Drive
	sheets  Sheets
	folder  string
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewPublisher(drive Drive, sheets Sheets, folder string, log *zap.Logger, m *metrics.Metrics) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}

	return &Publisher{
		drive:   drive,
		sheets:  sheets,
		folder:  folder,
		log:     log,
		metrics: m,
	}
}

// CreateSpreadsheet returns a spreadsheet named name in the publisher's folder. With overwrite
// every same-named spreadsheet in the folder is deleted and a new one created, otherwise the
// first existing one is reused. Files outside the folder are never touched.
func (p *Publisher) CreateSpreadsheet(ctx context.Context, name string, overwrite bool) (*Handle, error) {
	files, err := p.drive.Find(ctx, name, p.folder)
	if err != nil {
		return nil, fmt.Errorf("error searching for spreadsheet '%v' (%w)", name, err)
	}

	// ... only exact matches in the folder
	existing := []File{}
	for _, f := range files {
		if f.Name == name && slices.Contains(f.Parents, p.folder) {
			existing = append(existing, f)
		}
	}

	if overwrite {
		for _, f := range existing {
			p.log.Info("deleting existing spreadsheet", zap.String("name", f.Name), zap.String("id", f.ID))

			if err := p.drive.Delete(ctx, f.ID); err != nil {
				return nil, fmt.Errorf("error deleting spreadsheet '%v' (%w)", f.ID, err)
			}
		}
	} else if len(existing) > 0 {
		p.log.Info("reusing existing spreadsheet", zap.String("name", name), zap.String("id", existing[0].ID))

		return p.Open(ctx, existing[0].ID)
	}

	f, err := p.drive.Create(ctx, name, p.folder)
	if err != nil {
		return nil, fmt.Errorf("error creating spreadsheet '%v' (%w)", name, err)
	}

	p.log.Info("created spreadsheet", zap.String("name", name), zap.String("id", f.ID))

	return p.Open(ctx, f.ID)
}

// Open fetches the spreadsheet properties and tab list.
func (p *Publisher) Open(ctx context.Context, id string) (*Handle, error) {
	return open(ctx, p.sheets, id)
}

// ConfigureTabs makes sure the spreadsheet has a tab for each name, in a single batch. Tabs
// that already exist are kept and cleared. The first tab is renamed to the first missing name
// unless it is itself one of the names, and the other missing tabs are added. Fails with
// ErrTabExists, before issuing any change, if a name is listed more than once.
func (p *Publisher) ConfigureTabs(ctx context.Context, h *Handle, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("no tabs to configure")
	}

	first, ok := h.First()
	if !ok {
		return fmt.Errorf("spreadsheet %v has no tabs", h.ID)
	}

	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			return fmt.Errorf("%w: '%v' listed more than once", ErrTabExists, name)
		}

		seen[name] = true
	}

	rename := !seen[first.Title]
	requests := []*sheets.Request{}

	for _, name := range names {
		if id, ok := h.Tabs[name]; ok {
			p.log.Info("reusing existing tab", zap.String("tab", name), zap.String("spreadsheet", h.ID))
			requests = append(requests, clearTab(id))
		} else if rename {
			requests = append(requests, renameTab(first.ID, name))
			rename = false
		} else {
			requests = append(requests, addTab(name))
		}
	}

	if _, err := p.sheets.BatchUpdate(ctx, h.ID, requests...); err != nil {
		return fmt.Errorf("error configuring tabs for spreadsheet %v (%w)", h.ID, err)
	}

	return p.refresh(ctx, h)
}

// EnsureTab returns the ID of the named tab, adding it if it does not exist.
func (p *Publisher) EnsureTab(ctx context.Context, h *Handle, name string) (int64, error) {
	if id, ok := h.Tabs[name]; ok {
		return id, nil
	}

	response, err := p.sheets.BatchUpdate(ctx, h.ID, addTab(name))
	if err != nil {
		return 0, fmt.Errorf("error adding tab '%v' to spreadsheet %v (%w)", name, h.ID, err)
	}

	if response == nil || len(response.Replies) == 0 || response.Replies[0].AddSheet == nil || response.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("invalid response adding tab '%v' to spreadsheet %v", name, h.ID)
	}

	id := response.Replies[0].AddSheet.Properties.SheetId
	h.Add(name, id)

	return id, nil
}

// WriteTable writes the table header and rows to the tab starting at A1. Null cells are
// written as empty strings. Cells outside the written extent are left as they are.
func (p *Publisher) WriteTable(ctx context.Context, h *Handle, tab string, t *table.Table) error {
	if _, err := h.Tab(tab); err != nil {
		return err
	}

	values := [][]any{}
	if t != nil {
		header := make([]any, len(t.Header))
		for i, v := range t.Header {
			header[i] = v
		}

		values = append(values, header)

		for _, row := range t.Rows {
			r := make([]any, len(row))
			for i, v := range row {
				if v == nil {
					r[i] = ""
				} else {
					r[i] = v
				}
			}

			values = append(values, r)
		}
	}

	if len(values) == 0 {
		return nil
	}

	area := layout.Cell{}.A1(tab)
	if err := p.sheets.UpdateValues(ctx, h.ID, area, values); err != nil {
		return fmt.Errorf("error writing %v (%w)", area, err)
	}

	p.metrics.Rows(tab, t.Len())
	p.log.Debug("wrote table", zap.String("tab", tab), zap.Int("rows", t.Len()), zap.Int("columns", len(t.Header)))

	return nil
}

// WriteFormulaBlock writes the block caption, column labels and formulas in a single batch.
func (p *Publisher) WriteFormulaBlock(ctx context.Context, h *Handle, tab string, block layout.SummaryBlock, title string, formulas []layout.Formula) error {
	id, err := h.Tab(tab)
	if err != nil {
		return err
	}

	requests := []*sheets.Request{}

	if !block.Caption.Empty() && title != "" {
		requests = append(requests, updateCells(id, block.Caption.Start(), text(title)))
		requests = append(requests, bold(id, block.Caption))
	}

	labels := []*sheets.CellData{}
	for _, l := range block.Labels() {
		labels = append(labels, text(l))
	}

	if len(labels) > 0 {
		requests = append(requests, updateCells(id, block.Header.Start(), labels...))
		requests = append(requests, bold(id, block.Header))
	}

	for _, f := range formulas {
		requests = append(requests, updateCells(id, f.At, formula(f.Text)))
	}

	if _, err := p.sheets.BatchUpdate(ctx, h.ID, requests...); err != nil {
		return fmt.Errorf("error writing formulas to '%v' (%w)", tab, err)
	}

	p.log.Debug("wrote formula block",
		zap.String("tab", tab),
		zap.String("data", block.Data.A1(tab)),
		zap.Int("formulas", len(formulas)))

	return nil
}

// ReadTable reads a tab back as a table, the first row being the header.
func (p *Publisher) ReadTable(ctx context.Context, h *Handle, tab string) (*table.Table, error) {
	if _, err := h.Tab(tab); err != nil {
		return nil, err
	}

	values, err := p.sheets.GetValues(ctx, h.ID, layout.Sheet(tab))
	if err != nil {
		return nil, fmt.Errorf("error reading '%v' (%w)", tab, err)
	}

	return table.FromValues(values), nil
}

// ApplyNumberFormat applies a single number format to a range.
func (p *Publisher) ApplyNumberFormat(ctx context.Context, h *Handle, tab string, r layout.Range, format layout.NumberFormat) error {
	return p.ApplyNumberFormats(ctx, h, tab, []layout.FormatRange{{Range: r, Format: format}})
}

// ApplyNumberFormats applies each format to its range in a single batch, one repeatCell per
// range. Empty ranges are skipped and nothing is sent if no range remains.
func (p *Publisher) ApplyNumberFormats(ctx context.Context, h *Handle, tab string, formats []layout.FormatRange) error {
	id, err := h.Tab(tab)
	if err != nil {
		return err
	}

	requests := []*sheets.Request{}
	for _, f := range formats {
		if f.Range.Empty() {
			continue
		}

		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: gridRange(id, f.Range),
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    f.Format.Type,
							Pattern: f.Format.Pattern,
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		})
	}

	if len(requests) == 0 {
		return nil
	}

	if _, err := p.sheets.BatchUpdate(ctx, h.ID, requests...); err != nil {
		return fmt.Errorf("error formatting '%v' (%w)", tab, err)
	}

	return nil
}

// AddChart adds a chart over the source tab, anchored on the chart tab (created if absent).
// Any chart already on the chart tab is replaced in the same batch.
func (p *Publisher) AddChart(ctx context.Context, h *Handle, sourceTab string, chartTab string, spec layout.ChartSpec) error {
	source, err := h.Tab(sourceTab)
	if err != nil {
		return err
	}

	anchor, err := p.EnsureTab(ctx, h, chartTab)
	if err != nil {
		return err
	}

	requests := []*sheets.Request{}
	for _, id := range h.Charts(anchor) {
		requests = append(requests, deleteChart(id))
	}

	requests = append(requests, &sheets.Request{
		AddChart: &sheets.AddChartRequest{
			Chart: chart(source, anchor, spec),
		},
	})

	response, err := p.sheets.BatchUpdate(ctx, h.ID, requests...)
	if err != nil {
		return fmt.Errorf("error adding chart '%v' to '%v' (%w)", spec.Title, chartTab, err)
	}

	h.setCharts(anchor)
	if response != nil && len(response.Replies) == len(requests) {
		if reply := response.Replies[len(requests)-1].AddChart; reply != nil && reply.Chart != nil {
			h.setCharts(anchor, reply.Chart.ChartId)
		}
	}

	p.log.Debug("added chart",
		zap.String("title", spec.Title),
		zap.String("source", sourceTab),
		zap.String("tab", chartTab),
		zap.Int("replaced", len(requests)-1))

	return nil
}

func (p *Publisher) refresh(ctx context.Context, h *Handle) error {
	updated, err := open(ctx, p.sheets, h.ID)
	if err != nil {
		return err
	}

	*h = *updated

	return nil
}
