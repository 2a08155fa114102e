package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Name,Phone Number,Response Description,Gave Information,Call Length (s),Phishing Scenario
Alice Smith,(555) 123-4567,Hung up immediately,False,42.5,Bank Fraud
Bob Jones,(555) 987-6543,"Asked questions, but didn't share info",False,120,Tech Support Scam
Carol White,(555) 222-1111,Shared sensitive information,True,abc,Bank Fraud
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	rows, warnings, err := Load(writeTemp(t, "calls.csv", sampleCSV))
	require.NoError(t, err)
	assert.Zero(t, warnings)
	require.Len(t, rows, 3)

	assert.Equal(t, "Alice Smith", rows[0].Name)
	assert.Equal(t, "Bank Fraud", rows[0].Scenario)
	assert.Equal(t, "42.5", rows[0].CallLength)
	// quoted field with embedded comma stays one field
	assert.Equal(t, "Asked questions, but didn't share info", rows[1].Response)
	// unparseable call length is kept raw; aggregation drops it later
	assert.Equal(t, "abc", rows[2].CallLength)
}

func TestLoadDropsMalformedRecords(t *testing.T) {
	csv := "Name,Phishing Scenario,Call Length (s),Response Description\n" +
		"Alice,Bank Fraud,10,Hung up immediately\n" +
		"Bob,Tech Support Scam\n" + // two fields short
		"Carol,Prize Scam,30,Ignored the call\n"
	rows, warnings, err := Load(writeTemp(t, "calls.csv", csv))
	require.NoError(t, err)
	assert.Equal(t, 1, warnings)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, "Carol", rows[1].Name)
}

func TestLoadRowCountMatchesNonEmptyLines(t *testing.T) {
	csv := "Name,Phishing Scenario,Call Length (s),Response Description\n" +
		"A,Bank Fraud,1,Hung up immediately\n" +
		"\n" +
		"B,Prize Scam,2,Ignored the call\n"
	rows, _, err := Load(writeTemp(t, "calls.csv", csv))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLoadMissingColumnLeavesFieldEmpty(t *testing.T) {
	csv := "Name,Phishing Scenario\nAlice,Bank Fraud\n"
	rows, _, err := Load(writeTemp(t, "calls.csv", csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Response)
	assert.Empty(t, rows[0].CallLength)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Name", "Phishing Scenario", "Call Length (s)", "Response Description"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"Alice", "Bank Fraud", "42", "Hung up immediately"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"Bob", "Prize Scam"})) // trailing cells empty

	path := filepath.Join(t.TempDir(), "calls.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, warnings)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bank Fraud", rows[0].Scenario)
	// short workbook rows are padded, not dropped
	assert.Equal(t, "Bob", rows[1].Name)
	assert.Empty(t, rows[1].Response)
}

func TestDistinctFirstSeenOrder(t *testing.T) {
	rows := []Row{
		{Scenario: "Tech Support Scam"},
		{Scenario: "Bank Fraud"},
		{Scenario: "Tech Support Scam"},
		{Scenario: ""},
		{Scenario: "Prize Scam"},
	}
	assert.Equal(t, []string{"Tech Support Scam", "Bank Fraud", "Prize Scam"}, Distinct(rows, ColScenario))
}

func TestSummarize(t *testing.T) {
	rows := []Row{
		{Scenario: "Bank Fraud", Response: "Hung up immediately", CallLength: "10", GaveInformation: "False"},
		{Scenario: "Bank Fraud", Response: "Shared sensitive information", CallLength: "30", GaveInformation: "True"},
		{Scenario: "Prize Scam", Response: "Ignored the call", CallLength: "abc", GaveInformation: "False"},
		{Scenario: "Prize Scam", Response: "Ignored the call", CallLength: "", GaveInformation: "true"},
	}
	s := Summarize(rows)
	assert.Equal(t, 4, s.TotalCalls)
	assert.Equal(t, map[string]int{"Bank Fraud": 2, "Prize Scam": 2}, s.ByScenario)
	assert.Equal(t, map[string]int{"Hung up immediately": 1, "Shared sensitive information": 1, "Ignored the call": 2}, s.ByResponse)
	assert.InDelta(t, 20.0, s.AvgCallLength, 1e-9)
	assert.InDelta(t, 0.5, s.ShareGaveInfo, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalCalls)
	assert.Zero(t, s.AvgCallLength)
	assert.Zero(t, s.ShareGaveInfo)
}
