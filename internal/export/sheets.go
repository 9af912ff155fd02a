// Package export publishes a History to Google Sheets.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/mtlprog/hindsight/internal/domain"
)

// SheetWriter writes a History to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, h domain.History) error
}

var _ SheetWriter = (*SheetsWriter)(nil)

// SheetsWriter implements SheetWriter using the Google Sheets API.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	return newSheetsWriter(ctx, spreadsheetID, option.WithCredentials(creds))
}

func newSheetsWriter(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsWriter, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures the account's sheet exists, then clears and rewrites it.
func (w *SheetsWriter) Write(ctx context.Context, h domain.History) error {
	title := SheetTitle(h.Account)
	if err := w.ensureSheets(ctx, title); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.BatchClear(
		w.spreadsheetID,
		&sheets.BatchClearValuesRequest{
			Ranges: []string{fmt.Sprintf("'%s'!A:B", title)},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheet %s: %w", title, err)
	}

	_, err = w.svc.Spreadsheets.Values.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data: []*sheets.ValueRange{
				{Range: fmt.Sprintf("'%s'!A1", title), Values: buildRows(h)},
			},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheet %s: %w", title, err)
	}

	slog.Info("history exported to sheets", "sheet", title, "rows", len(h.Points))
	return nil
}

// SheetTitle names the sheet an account's history is written to. The full
// address is used so accounts sharing a prefix and suffix never collide.
func SheetTitle(account string) string {
	return account
}

// buildRows lays the series out as Date | Value rows under a header.
func buildRows(h domain.History) [][]any {
	header := []any{"Date", fmt.Sprintf("Value (%s)", h.Quote.Code)}
	rows := lo.Map(h.Points, func(p domain.ValuePoint, _ int) []any {
		return []any{p.Date().Format(time.DateOnly), p.Value.InexactFloat64()}
	})
	return append([][]any{header}, rows...)
}

// ensureSheets creates any of the named sheets that do not already exist.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, name := range names {
		if !existing[name] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheets: %w", err)
	}

	return nil
}
