package export

import "fmt"

// Dataset is a header row plus positional data rows.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a row. Short rows are padded so every row spans the
// headers; long rows are kept as is and rejected at render time.
func (d *Dataset) AddRow(values ...string) {
	row := make([]string, max(len(d.Headers), len(values)))
	copy(row, values)
	d.Rows = append(d.Rows, row)
}

func (d Dataset) check(format string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", format)
	}
	for i, row := range d.Rows {
		if len(row) > len(d.Headers) {
			return fmt.Errorf("%s row %d has %d values for %d headers", format, i+1, len(row), len(d.Headers))
		}
	}
	return nil
}
