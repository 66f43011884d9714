package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStatement() Statement {
	return Statement{
		Title:   "Pending classes",
		Notes:   []string{"Mentor: mentor@example.com"},
		Columns: []string{"Date", "Student", "Amount"},
		Rows: [][]string{
			{"2024-06-01", "Ada", "50.00"},
			{"2024-06-03", "Grace, H.", "25.00"},
		},
		Totals: []string{"Total", "", "75.00"},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVRenderer(t *testing.T) {
	out, err := NewCSVRenderer().Render(sampleStatement())
	require.NoError(t, err)

	expected := "Pending classes\nMentor: mentor@example.com\nDate,Student,Amount\n2024-06-01,Ada,50.00\n2024-06-03,\"Grace, H.\",25.00\nTotal,,75.00\n"
	assert.Equal(t, expected, string(out))
}

func TestCSVRendererRejectsRaggedRows(t *testing.T) {
	s := sampleStatement()
	s.Rows = append(s.Rows, []string{"only one"})
	_, err := NewCSVRenderer().Render(s)
	assert.Error(t, err)
}

func TestPDFRenderer(t *testing.T) {
	out, err := RendererFor(FormatPDF).Render(sampleStatement())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRendererRequiresColumns(t *testing.T) {
	_, err := NewPDFRenderer().Render(Statement{})
	assert.Error(t, err)
}
