package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// BuildDayPDF renders a minimal PDF for a daily production report.
func BuildDayPDF(rep *DayReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Daily Production Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Site: %s", rep.SiteName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Inverter: %d", rep.InverterID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Day: %s", rep.Day.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", rep.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Yield (kWh): %.2f", rep.YieldKWh))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Peak AC Power (W): %.1f", rep.PeakACPower))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Feed-in range (W): %.1f to %.1f", rep.MinFeedIn, rep.MaxFeedIn))
	pdf.Ln(8)

	// Samples table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Time", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "AC Power (W)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Feed-in (W)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Yield (kWh)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, s := range rep.Samples {
		pdf.CellFormat(30, 6, s.Periodo+":"+s.Min, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", s.ACPower), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", s.FeedInPower), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", s.YieldToday), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildDayXLSX renders a minimal XLSX for a daily production report.
func BuildDayXLSX(rep *DayReport) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	samplesSheet := "samples"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(samplesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Daily Production Report")
	_ = f.SetCellValue(summarySheet, "A3", "Site")
	_ = f.SetCellValue(summarySheet, "B3", rep.SiteName)
	_ = f.SetCellValue(summarySheet, "A4", "Inverter")
	_ = f.SetCellValue(summarySheet, "B4", rep.InverterID)
	_ = f.SetCellValue(summarySheet, "A5", "Day")
	_ = f.SetCellValue(summarySheet, "B5", rep.Day.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A6", "Yield (kWh)")
	_ = f.SetCellValue(summarySheet, "B6", rep.YieldKWh)
	_ = f.SetCellValue(summarySheet, "A7", "Peak AC Power (W)")
	_ = f.SetCellValue(summarySheet, "B7", rep.PeakACPower)
	_ = f.SetCellValue(summarySheet, "A8", "Max Feed-in (W)")
	_ = f.SetCellValue(summarySheet, "B8", rep.MaxFeedIn)
	_ = f.SetCellValue(summarySheet, "A9", "Min Feed-in (W)")
	_ = f.SetCellValue(summarySheet, "B9", rep.MinFeedIn)

	_ = f.SetCellValue(samplesSheet, "A1", "Time")
	_ = f.SetCellValue(samplesSheet, "B1", "AC Power (W)")
	_ = f.SetCellValue(samplesSheet, "C1", "Feed-in (W)")
	_ = f.SetCellValue(samplesSheet, "D1", "Yield (kWh)")
	for i, s := range rep.Samples {
		row := i + 2
		_ = f.SetCellValue(samplesSheet, fmt.Sprintf("A%d", row), s.Periodo+":"+s.Min)
		_ = f.SetCellValue(samplesSheet, fmt.Sprintf("B%d", row), s.ACPower)
		_ = f.SetCellValue(samplesSheet, fmt.Sprintf("C%d", row), s.FeedInPower)
		_ = f.SetCellValue(samplesSheet, fmt.Sprintf("D%d", row), s.YieldToday)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
