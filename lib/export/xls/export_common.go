package xlsexport

import (
	"github.com/xuri/excelize/v2"
)

const (
	fontFamily = "Calibri"
	colWidth   = 22
)

// sheetWriter построчная запись листа, первая строка заголовок
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheetWriter(f *excelize.File, sheet string) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet}
}

func (w *sheetWriter) writeRow(values []interface{}) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(w.sheet, cell, &values)
}

func (w *sheetWriter) writeHeader(headers []string) error {
	values := make([]interface{}, 0, len(headers))
	for _, header := range headers {
		values = append(values, header)
	}
	if err := w.writeRow(values); err != nil {
		return err
	}
	style, err := w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Font:      &excelize.Font{Bold: true, Family: fontFamily, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}
	if err = w.setStyle(style, 1, w.row, len(headers), w.row); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err = w.f.SetColWidth(w.sheet, "A", lastCol, colWidth); err != nil {
		return err
	}
	return w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      w.row,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// styleData оформление строк данных, записанных после заголовка
func (w *sheetWriter) styleData(cols int) error {
	if w.row < 2 {
		return nil
	}
	style, err := w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Font:      &excelize.Font{Family: fontFamily, Size: 11},
	})
	if err != nil {
		return err
	}
	return w.setStyle(style, 1, 2, cols, w.row)
}

func (w *sheetWriter) setStyle(style, colFrom, rowFrom, colTo, rowTo int) error {
	cellFirst, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	cellLast, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, cellFirst, cellLast, style)
}
