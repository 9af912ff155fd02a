package export

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/mtlprog/hindsight/internal/domain"
)

const testAccount = "GCNPEEJSTMX4QLS672IGAYWHGAECQGNSH7UDSS6EGXQLDPYELDVVJB2X"

func sampleHistory() domain.History {
	return domain.History{
		Account: testAccount,
		Quote:   domain.USDCAsset(),
		Points: []domain.ValuePoint{
			{Timestamp: 1735689600000, Value: decimal.RequireFromString("105")},
			{Timestamp: 1735776000000, Value: decimal.RequireFromString("85.5")},
		},
	}
}

func TestBuildRows(t *testing.T) {
	rows := buildRows(sampleHistory())

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][1] != "Value (USDC)" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "2025-01-01" || rows[1][1] != 105.0 {
		t.Errorf("unexpected first row %v", rows[1])
	}
	if rows[2][0] != "2025-01-02" || rows[2][1] != 85.5 {
		t.Errorf("unexpected second row %v", rows[2])
	}
}

func TestBuildRowsEmpty(t *testing.T) {
	h := sampleHistory()
	h.Points = nil
	if rows := buildRows(h); len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}

func TestSheetTitle(t *testing.T) {
	if got := SheetTitle(testAccount); got != testAccount {
		t.Errorf("SheetTitle() = %q", got)
	}
	// Same first and last four characters as testAccount.
	other := "GCNPAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAJB2X"
	if SheetTitle(other) == SheetTitle(testAccount) {
		t.Errorf("SheetTitle(%q) collides with SheetTitle(%q)", other, testAccount)
	}
}

type recordedCall struct {
	method string
	path   string
	body   map[string]any
}

func fakeSheetsServer(t *testing.T, existing []string) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.body)
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			var sheetList []map[string]any
			for _, title := range existing {
				sheetList = append(sheetList, map[string]any{"properties": map[string]any{"title": title}})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-id", "sheets": sheetList})
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestWriter(t *testing.T, srv *httptest.Server) *SheetsWriter {
	t.Helper()
	w, err := newSheetsWriter(context.Background(), "sheet-id",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("creating writer: %v", err)
	}
	return w
}

func TestSheetsWriterCreatesMissingSheet(t *testing.T) {
	srv, calls := fakeSheetsServer(t, []string{"Other"})
	w := newTestWriter(t, srv)

	if err := w.Write(context.Background(), sampleHistory()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got := *calls
	if len(got) != 4 {
		t.Fatalf("expected 4 API calls, got %d: %+v", len(got), got)
	}
	if got[0].method != http.MethodGet {
		t.Errorf("first call should read metadata, got %s %s", got[0].method, got[0].path)
	}
	if !strings.HasSuffix(got[1].path, ":batchUpdate") || strings.Contains(got[1].path, "values") {
		t.Errorf("second call should add the sheet, got %s", got[1].path)
	}
	if !strings.HasSuffix(got[2].path, "values:batchClear") {
		t.Errorf("third call should clear values, got %s", got[2].path)
	}
	if !strings.HasSuffix(got[3].path, "values:batchUpdate") {
		t.Errorf("fourth call should write values, got %s", got[3].path)
	}

	data, _ := got[3].body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected one value range, got %v", got[3].body)
	}
	vr, _ := data[0].(map[string]any)
	if vr["range"] != "'"+testAccount+"'!A1" {
		t.Errorf("unexpected range %v", vr["range"])
	}
	values, _ := vr["values"].([]any)
	if len(values) != 3 {
		t.Errorf("expected 3 value rows, got %d", len(values))
	}
}

func TestSheetsWriterReusesExistingSheet(t *testing.T) {
	srv, calls := fakeSheetsServer(t, []string{testAccount})
	w := newTestWriter(t, srv)

	if err := w.Write(context.Background(), sampleHistory()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if len(*calls) != 3 {
		t.Errorf("expected 3 API calls when sheet exists, got %d", len(*calls))
	}
}

func TestSheetsWriterMetadataError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))
	defer srv.Close()
	w := newTestWriter(t, srv)

	err := w.Write(context.Background(), sampleHistory())
	if err == nil || !strings.Contains(err.Error(), "getting spreadsheet metadata") {
		t.Errorf("expected metadata error, got %v", err)
	}
}

func TestNewSheetsWriterBadCredentials(t *testing.T) {
	if _, err := NewSheetsWriter(context.Background(), "sheet-id", "not json"); err == nil {
		t.Error("expected error for malformed credentials")
	}
}
