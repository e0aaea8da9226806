package purchases

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []interface{}{
	"purchase_id",
	"date",
	"user_id",
	"shop_id",
	"item_id",
	"product_id",
	"quantity",
	"unit_price",
	"subtotal",
	"purchase_total",
}

// WriteXLSX writes one row per item. Decimal columns are written as text
// so the sheet shows the stored values exactly.
func WriteXLSX(w io.Writer, list []Purchase) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, p := range list {
		for _, it := range p.Items {
			cells := []interface{}{
				p.ID,
				p.Date.Format("2006-01-02"),
				p.UserID,
				p.ShopID,
				it.ID,
				it.ProductID,
				it.Quantity.String(),
				FormatMoney(it.UnitPrice),
				FormatMoney(it.Subtotal),
				FormatMoney(p.TotalAmount),
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
