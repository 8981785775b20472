package publisher

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mediaops/jsonbin-sheets/metrics"
)

const mimeSpreadsheet = "application/vnd.google-apps.spreadsheet"

// Google implements Drive and Sheets over the Drive v3 and Sheets v4 APIs.
type Google struct {
	drive   *drive.Service
	sheets  *sheets.Service
	metrics *metrics.Metrics
}

// NewGoogle creates the Drive and Sheets services authorised by tokens. A non-empty project
// is billed for quota instead of the project that owns the token.
func NewGoogle(ctx context.Context, tokens oauth2.TokenSource, project string, m *metrics.Metrics, opts ...option.ClientOption) (*Google, error) {
	options := []option.ClientOption{option.WithTokenSource(tokens)}
	if project != "" {
		options = append(options, option.WithQuotaProject(project))
	}

	options = append(options, opts...)

	gdrive, err := drive.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	gsheets, err := sheets.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return &Google{
		drive:   gdrive,
		sheets:  gsheets,
		metrics: m,
	}, nil
}

// Find lists the (untrashed) spreadsheets named name in folder.
func (g *Google) Find(ctx context.Context, name, folder string) ([]File, error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false", escape(name), escape(folder), mimeSpreadsheet)
	files := []File{}

	call := g.drive.Files.List().
		Q(q).
		Fields("nextPageToken, files(id, name, parents)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)

	err := call.Pages(ctx, func(page *drive.FileList) error {
		g.metrics.Request("drive", "list")

		for _, f := range page.Files {
			files = append(files, File{
				ID:      f.Id,
				Name:    f.Name,
				Parents: f.Parents,
			})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

func (g *Google) Delete(ctx context.Context, id string) error {
	g.metrics.Request("drive", "delete")

	return g.drive.Files.Delete(id).SupportsAllDrives(true).Context(ctx).Do()
}

// Create creates an empty spreadsheet in folder.
func (g *Google) Create(ctx context.Context, name, folder string) (File, error) {
	g.metrics.Request("drive", "create")

	f := drive.File{
		Name:     name,
		MimeType: mimeSpreadsheet,
		Parents:  []string{folder},
	}

	created, err := g.drive.Files.Create(&f).
		Fields("id, name, parents").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return File{}, err
	}

	return File{
		ID:      created.Id,
		Name:    created.Name,
		Parents: created.Parents,
	}, nil
}

func (g *Google) Get(ctx context.Context, id string) (*sheets.Spreadsheet, error) {
	g.metrics.Request("sheets", "get")

	return g.sheets.Spreadsheets.Get(id).
		Fields("spreadsheetId, properties.title, sheets.properties, sheets.charts.chartId").
		Context(ctx).
		Do()
}

func (g *Google) BatchUpdate(ctx context.Context, id string, requests ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	g.metrics.Request("sheets", "batchUpdate")

	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	return g.sheets.Spreadsheets.BatchUpdate(id, &rq).Context(ctx).Do()
}

// UpdateValues writes values at area as if typed by a user, so formulas and numbers are parsed.
func (g *Google) UpdateValues(ctx context.Context, id string, area string, values [][]any) error {
	g.metrics.Request("sheets", "updateValues")

	rq := sheets.ValueRange{
		Range:          area,
		MajorDimension: "ROWS",
		Values:         values,
	}

	_, err := g.sheets.Spreadsheets.Values.Update(id, area, &rq).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()

	return err
}

// GetValues reads the unformatted values at area. Trailing empty rows and cells are omitted.
func (g *Google) GetValues(ctx context.Context, id string, area string) ([][]any, error) {
	g.metrics.Request("sheets", "getValues")

	response, err := g.sheets.Spreadsheets.Values.Get(id, area).
		MajorDimension("ROWS").
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	values := [][]any{}
	for _, row := range response.Values {
		values = append(values, append([]any{}, row...))
	}

	return values, nil
}

func (g *Google) CopyTo(ctx context.Context, id string, sheetID int64, destination string) (*sheets.SheetProperties, error) {
	g.metrics.Request("sheets", "copyTo")

	rq := sheets.CopySheetToAnotherSpreadsheetRequest{
		DestinationSpreadsheetId: destination,
	}

	return g.sheets.Spreadsheets.Sheets.CopyTo(id, sheetID, &rq).Context(ctx).Do()
}

// escape quotes a value for a Drive query string literal.
func escape(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}
