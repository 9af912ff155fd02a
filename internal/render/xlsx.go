package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/hindsight/internal/domain"
)

// SheetName is the worksheet holding the series.
const SheetName = "History"

// XLSX writes the series to a workbook with a line chart next to the data.
type XLSX struct{}

func (XLSX) Render(w io.Writer, h domain.History) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}
	valueFmt := "#,##0.00"
	valueStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &valueFmt})
	if err != nil {
		return fmt.Errorf("creating value style: %w", err)
	}

	header := []any{"Date", fmt.Sprintf("Value (%s)", h.Quote.Code)}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range h.Points {
		row := i + 2
		dateCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(SheetName, dateCell, p.Date()); err != nil {
			return fmt.Errorf("writing %s: %w", dateCell, err)
		}
		if err := f.SetCellFloat(SheetName, valueCell, p.Value.InexactFloat64(), -1, 64); err != nil {
			return fmt.Errorf("writing %s: %w", valueCell, err)
		}
	}

	if n := len(h.Points); n > 0 {
		last := n + 1
		if err := f.SetCellStyle(SheetName, "A2", fmt.Sprintf("A%d", last), dateStyle); err != nil {
			return fmt.Errorf("styling dates: %w", err)
		}
		if err := f.SetCellStyle(SheetName, "B2", fmt.Sprintf("B%d", last), valueStyle); err != nil {
			return fmt.Errorf("styling values: %w", err)
		}
		if err := f.SetColWidth(SheetName, "A", "B", 16); err != nil {
			return fmt.Errorf("sizing columns: %w", err)
		}
		if err := f.AddChart(SheetName, "D2", lineChart(h, last)); err != nil {
			return fmt.Errorf("adding chart: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func lineChart(h domain.History, lastRow int) *excelize.Chart {
	return &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", SheetName),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetName, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", SheetName, lastRow),
		}},
		Title: []excelize.RichTextRun{{
			Text: fmt.Sprintf("Portfolio value of %s", domain.ShortAccountID(h.Account)),
		}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 960, Height: 480},
	}
}
