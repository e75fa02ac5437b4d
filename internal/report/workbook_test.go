package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "batch")

	wb := Workbook{
		RunID: "run-1",
		Summary: []SummaryRow{
			{JDID: "go.txt", Title: "Go Developer", Status: "processed", TopProfile: "alice.pdf", TopScore: 0.87, Decision: "matches_found"},
			{JDID: "blank.txt", Title: "Unknown Job", Status: "skipped"},
		},
		Matches: []MatchRow{
			{JDID: "go.txt", Rank: 1, ProfileName: "alice.pdf", ApplicantName: "Alice Smith", Score: 0.87, Reasoning: "- Go"},
			{JDID: "go.txt", Rank: 2, ProfileName: "bob.docx", ApplicantName: "Bob Jones", Score: 0.12, Reasoning: "- Java"},
		},
	}

	require.NoError(t, ExportWorkbook(wb, path))

	f, err := excelize.OpenFile(path + ".xlsx")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, matchesSheet}, f.GetSheetList())

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"JD", "Title", "Status", "Top Profile", "Top Score", "Decision", "Error"}, summary[0])
	assert.Equal(t, "go.txt", summary[1][0])
	assert.Equal(t, "0.87", summary[1][4])
	assert.Equal(t, "skipped", summary[2][2])

	matches, err := f.GetRows(matchesSheet)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, []string{"go.txt", "2", "bob.docx", "Bob Jones", "0.12", "- Java"}, matches[2])
}
