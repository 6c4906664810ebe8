package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/tiendaropa/internal/domain"
)

const (
	SheetPeriod = "SalesData"
	SheetAll    = "AllSales"
	headerFill  = "8E325E"
	dateLayout  = "2006-01-02 15:04"
)

var header = []string{"Date", "Customer", "Product", "Category", "Quantity", "Size", "Platform", "Amount", "Paid"}

func paidLabel(paid bool) string {
	if paid {
		return "Yes"
	}
	return "No"
}

func record(r domain.SaleRow) []string {
	return []string{
		r.Date.UTC().Format(dateLayout),
		r.CustomerName,
		r.ProductName,
		string(r.Category),
		strconv.Itoa(r.Quantity),
		string(r.Size),
		string(r.Platform),
		r.Amount.StringFixed(2),
		paidLabel(r.IsPaid),
	}
}

// WriteSalesXLSX escribe un libro con una hoja de ventas y encabezado en negrita.
func WriteSalesXLSX(w io.Writer, sheet string, rows []domain.SaleRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return err
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 2
		amount, _ := r.Amount.Float64()
		values := []any{
			r.Date.UTC().Format(dateLayout),
			r.CustomerName,
			r.ProductName,
			string(r.Category),
			r.Quantity,
			string(r.Size),
			string(r.Platform),
			amount,
			paidLabel(r.IsPaid),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "C", 24)

	_, err = f.WriteTo(w)
	return err
}

func WriteSalesCSV(w io.Writer, rows []domain.SaleRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
