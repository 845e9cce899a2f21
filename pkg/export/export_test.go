package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	data := Dataset{Headers: []string{"Teacher", "Class", "Progress %"}}
	data.AddRow("Teacher One", "Class 7", "50%")
	data.AddRow("Teacher Two", "Class 8", "33%")
	return data
}

func TestPDFExporterRender(t *testing.T) {
	lines := make([]string, 0, 80)
	for i := 0; i < 80; i++ {
		lines = append(lines, fmt.Sprintf("Teacher %d | Class 7 | English | 1/2 (50%%)", i))
	}
	out, err := NewPDFExporter().Render("Syllabus Progress Report", lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestLayoutLinesBreaksPages(t *testing.T) {
	positions := layoutLines(80)
	require.Len(t, positions, 80)

	assert.Equal(t, 0, positions[0].page)
	assert.Equal(t, bodyStartY, positions[0].y)
	assert.Equal(t, positions[0].y+lineHeight, positions[1].y)

	// First page holds lines from y=100 until the bottom margin is reached.
	firstPage := 0
	for _, p := range positions {
		if p.page == 0 {
			firstPage++
			assert.LessOrEqual(t, p.y, pageHeight-bottomMargin)
		}
	}
	assert.Equal(t, 35, firstPage)
	assert.Equal(t, 1, positions[firstPage].page)
	assert.Equal(t, titleY, positions[firstPage].y)
	assert.Empty(t, layoutLines(0))
}

func TestXLSXExporterRender(t *testing.T) {
	data := sampleDataset()
	data.Headers = append(data.Headers, "Total Topics")
	data.Rows[0] = append(data.Rows[0], "2")

	out, err := NewXLSXExporter().Render(data, "Progress Report")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Progress Report", "C1")
	require.NoError(t, err)
	assert.Equal(t, "Progress %", header)

	progress, err := f.GetCellValue("Progress Report", "C2")
	require.NoError(t, err)
	assert.Equal(t, "50%", progress)

	total, err := f.GetCellValue("Progress Report", "D2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	_, err = NewXLSXExporter().Render(Dataset{}, "x")
	assert.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Teacher", "Class", "Progress %"}, records[0])
	assert.Equal(t, "33%", records[2][2])
}

func TestDatasetAddRowPadsShortRows(t *testing.T) {
	data := Dataset{Headers: []string{"A", "B", "C"}}
	data.AddRow("only")
	assert.Equal(t, [][]string{{"only", "", ""}}, data.Rows)

	data.AddRow("1", "2", "3", "4")
	_, err := NewCSVExporter().Render(data)
	assert.EqualError(t, err, "csv row 2 has 4 values for 3 headers")
}
