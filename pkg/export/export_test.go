package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func freeSlotDataset() Dataset {
	return Dataset{
		Title:   "Free slots",
		Headers: []string{"Date", "Pair", "Entities"},
		Rows: []map[string]string{
			{"Date": "2024-03-04", "Pair": "2", "Entities": "Group-A, Group-B"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(freeSlotDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "Date,Pair,Entities\n2024-03-04,2,\"Group-A, Group-B\"\n", string(out[len(utf8BOM):]))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter("").Render(freeSlotDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRefusesCyrillicWithoutFont(t *testing.T) {
	data := Dataset{
		Title:   "Общие свободные пары",
		Headers: []string{"Дата"},
		Rows:    []map[string]string{{"Дата": "2024-03-04"}},
	}
	_, err := NewPDFExporter("").Render(data)
	assert.ErrorIs(t, err, ErrFontRequired)

	data.Title = "Free slots"
	data.Headers = []string{"Date"}
	data.Rows = []map[string]string{{"Date": "Понедельник"}}
	_, err = NewPDFExporter("").Render(data)
	assert.ErrorIs(t, err, ErrFontRequired)
}

func TestPDFExporterMissingFont(t *testing.T) {
	_, err := NewPDFExporter("/nonexistent/font.ttf").Render(freeSlotDataset())
	assert.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(freeSlotDataset())
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Free slots")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Pair", "Entities"},
		{"2024-03-04", "2", "Group-A, Group-B"},
	}, rows)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Общие свободные пары", sheetName("Общие свободные пары"))
	assert.Equal(t, "a-b", sheetName(" a[-]b? "))
	assert.Len(t, []rune(sheetName(strings.Repeat("я", 40))), maxSheetRunes)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = ParseFormat(" xlsx ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}
