package excel

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Exporter renders tabular data into an xlsx workbook with a styled header
// row and auto-filtered columns.
type Exporter struct {
	sheet string
}

func NewExporter() *Exporter {
	return &Exporter{sheet: defaultSheet}
}

func (e *Exporter) Export(headers []string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(e.sheet, "A1", &headerRow); err != nil {
		return nil, errors.Wrap(err, "failed to write header row")
	}
	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && len(headers) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(e.sheet, "A1", lastCell, styleID)
		_ = f.AutoFilter(e.sheet, "A1:"+lastCell, nil)
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(e.sheet, cell, &cells); err != nil {
			return nil, errors.Wrapf(err, "failed to write row %d", i+2)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize workbook")
	}
	return buf, nil
}
