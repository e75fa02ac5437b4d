package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	matchesSheet = "Matches"
)

// SummaryRow is one processed job description in the batch workbook.
type SummaryRow struct {
	JDID       string
	Title      string
	Status     string
	TopProfile string
	TopScore   float64
	Decision   string
	Error      string
}

// MatchRow is one ranked comparison in the batch workbook.
type MatchRow struct {
	JDID          string
	Rank          int
	ProfileName   string
	ApplicantName string
	Score         float64
	Reasoning     string
}

// Workbook is the batch export.
type Workbook struct {
	RunID   string
	Summary []SummaryRow
	Matches []MatchRow
}

// ExportWorkbook writes wb as an .xlsx file at path.
func ExportWorkbook(wb Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(matchesSheet); err != nil {
		return fmt.Errorf("create matches sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	summaryRows := make([][]any, 0, len(wb.Summary))
	for _, r := range wb.Summary {
		summaryRows = append(summaryRows, []any{r.JDID, r.Title, r.Status, r.TopProfile, r.TopScore, r.Decision, r.Error})
	}
	if err := writeSheet(f, summarySheet, headerStyle,
		[]string{"JD", "Title", "Status", "Top Profile", "Top Score", "Decision", "Error"},
		[]float64{25, 35, 12, 25, 12, 16, 40},
		summaryRows,
	); err != nil {
		return err
	}

	matchRows := make([][]any, 0, len(wb.Matches))
	for _, r := range wb.Matches {
		matchRows = append(matchRows, []any{r.JDID, r.Rank, r.ProfileName, r.ApplicantName, r.Score, r.Reasoning})
	}
	if err := writeSheet(f, matchesSheet, headerStyle,
		[]string{"JD", "Rank", "Profile", "Applicant", "Score", "Reasoning"},
		[]float64{25, 8, 25, 25, 10, 80},
		matchRows,
	); err != nil {
		return err
	}

	if wb.RunID != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: "jd-matcher batch " + wb.RunID, Creator: "jd-matcher"}); err != nil {
			return fmt.Errorf("set workbook properties: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workbook dir: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []string, widths []float64, rows [][]any) error {
	for i, header := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return fmt.Errorf("set %s column width: %w", sheet, err)
		}
		cell := fmt.Sprintf("%s1", col)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("write %s header: %w", sheet, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}

	return nil
}
