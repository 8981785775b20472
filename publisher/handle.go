package publisher

import (
	"context"
	"fmt"
	"slices"
)

// Tab is a spreadsheet tab (sheet) title and ID.
type Tab struct {
	ID    int64
	Title string
}

// Handle identifies a remote spreadsheet and its tabs, in display order.
type Handle struct {
	ID     string
	Name   string
	Tabs   map[string]int64
	tabs   []Tab
	charts map[int64][]int64
}

func open(ctx context.Context, s Sheets, id string) (*Handle, error) {
	spreadsheet, err := s.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet %v (%w)", id, err)
	}

	h := Handle{
		ID:     spreadsheet.SpreadsheetId,
		Tabs:   map[string]int64{},
		tabs:   []Tab{},
		charts: map[int64][]int64{},
	}

	if h.ID == "" {
		h.ID = id
	}

	if spreadsheet.Properties != nil {
		h.Name = spreadsheet.Properties.Title
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet != nil && sheet.Properties != nil {
			h.Add(sheet.Properties.Title, sheet.Properties.SheetId)

			for _, c := range sheet.Charts {
				if c != nil {
					h.charts[sheet.Properties.SheetId] = append(h.charts[sheet.Properties.SheetId], c.ChartId)
				}
			}
		}
	}

	return &h, nil
}

func (h *Handle) URL() string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", h.ID)
}

// Tab returns the ID of the named tab or ErrNoSuchTab.
func (h *Handle) Tab(name string) (int64, error) {
	if id, ok := h.Tabs[name]; ok {
		return id, nil
	}

	return 0, fmt.Errorf("%w: '%v' in spreadsheet %v", ErrNoSuchTab, name, h.ID)
}

// First returns the first tab, i.e. the implicit tab of a new spreadsheet.
func (h *Handle) First() (Tab, bool) {
	if len(h.tabs) == 0 {
		return Tab{}, false
	}

	return h.tabs[0], true
}

// Add records a tab added remotely.
func (h *Handle) Add(title string, id int64) {
	if h.Tabs == nil {
		h.Tabs = map[string]int64{}
	}

	h.Tabs[title] = id
	h.tabs = append(h.tabs, Tab{ID: id, Title: title})
}

// Rename updates the local tab list after a tab has been renamed remotely.
func (h *Handle) Rename(id int64, title string) {
	for i, t := range h.tabs {
		if t.ID == id {
			delete(h.Tabs, t.Title)
			h.tabs[i].Title = title
			h.Tabs[title] = id
		}
	}
}

// Remove updates the local tab list after a tab has been deleted remotely.
func (h *Handle) Remove(id int64) {
	h.tabs = slices.DeleteFunc(h.tabs, func(t Tab) bool {
		if t.ID == id {
			delete(h.Tabs, t.Title)
			return true
		}

		return false
	})

	delete(h.charts, id)
}

// Charts returns the IDs of the charts anchored on a tab.
func (h *Handle) Charts(tab int64) []int64 {
	return slices.Clone(h.charts[tab])
}

func (h *Handle) setCharts(tab int64, charts ...int64) {
	if h.charts == nil {
		h.charts = map[int64][]int64{}
	}

	h.charts[tab] = charts
}
