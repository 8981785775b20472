// Package replicator copies published tabs from one spreadsheet into another.
//
// A copied tab keeps its values and formats but not its charts, which are regenerated
// at the destination from the destination's own row counts.
package replicator

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/mediaops/jsonbin-sheets/publisher"
)

type Replicator struct {
	sheets publisher.Sheets
	log    *zap.Logger
}

func NewReplicator(s publisher.Sheets, log *zap.Logger) *Replicator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Replicator{
		sheets: s,
		log:    log,
	}
}

// CopyTab copies the named tab from src to dest and renames the copy, which the provider
// names "Copy of <tab>", back to tab. A tab of the same name already in dest is deleted in
// the same batch as the rename. Returns the ID of the new tab.
func (r *Replicator) CopyTab(ctx context.Context, src *publisher.Handle, tab string, dest *publisher.Handle) (int64, error) {
	id, err := src.Tab(tab)
	if err != nil {
		return 0, err
	}

	existing, replace := dest.Tabs[tab]

	copied, err := r.sheets.CopyTo(ctx, src.ID, id, dest.ID)
	if err != nil {
		return 0, fmt.Errorf("error copying '%v' to spreadsheet %v (%w)", tab, dest.ID, err)
	} else if copied == nil {
		return 0, fmt.Errorf("invalid response copying '%v' to spreadsheet %v", tab, dest.ID)
	}

	dest.Add(copied.Title, copied.SheetId)

	requests := []*sheets.Request{}
	if replace {
		requests = append(requests, &sheets.Request{
			DeleteSheet: &sheets.DeleteSheetRequest{
				SheetId:         existing,
				ForceSendFields: []string{"SheetId"},
			},
		})
	}

	requests = append(requests, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:         copied.SheetId,
				Title:           tab,
				ForceSendFields: []string{"SheetId"},
			},
			Fields: "title",
		},
	})

	if _, err := r.sheets.BatchUpdate(ctx, dest.ID, requests...); err != nil {
		return 0, fmt.Errorf("error renaming '%v' to '%v' (%w)", copied.Title, tab, err)
	}

	if replace {
		dest.Remove(existing)
		r.log.Info("replaced existing tab", zap.String("tab", tab), zap.String("spreadsheet", dest.ID), zap.Int64("id", existing))
	}

	dest.Rename(copied.SheetId, tab)

	r.log.Debug("copied tab", zap.String("tab", tab), zap.String("from", src.ID), zap.String("to", dest.ID), zap.Int64("id", copied.SheetId))

	return copied.SheetId, nil
}

// CopyTabs copies the tabs in order, stopping at the first failure.
func (r *Replicator) CopyTabs(ctx context.Context, src *publisher.Handle, tabs []string, dest *publisher.Handle) error {
	for _, tab := range tabs {
		if _, err := r.CopyTab(ctx, src, tab, dest); err != nil {
			return err
		}
	}

	return nil
}
