package storage

import (
	"fmt"
	"io"

	"storefront/internal/checkout"

	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet = "Orders"
	linesSheet  = "Lines"
)

var (
	orderHeaders = []string{
		"ID", "Customer", "Phone", "Mode", "Address",
		"Subtotal", "Total", "Status", "Created At",
	}
	lineHeaders = []string{
		"Order ID", "Item ID", "Item", "Kind", "Size",
		"Quantity", "Unit Price", "Subtotal", "Configuration",
	}
)

// WriteOrdersWorkbook writes orders and their lines as an xlsx workbook.
// Money columns are minor units.
func WriteOrdersWorkbook(w io.Writer, orders []checkout.Order) error {
	const operation = "storage.WriteOrdersWorkbook"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return fmt.Errorf("%s: failed to rename sheet: %w", operation, err)
	}
	if _, err := f.NewSheet(linesSheet); err != nil {
		return fmt.Errorf("%s: failed to create sheet: %w", operation, err)
	}

	if err := writeRow(f, ordersSheet, 1, toCells(orderHeaders)); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if err := writeRow(f, linesSheet, 1, toCells(lineHeaders)); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	lineRow := 2
	for i, order := range orders {
		row := []interface{}{
			order.ID,
			order.CustomerName,
			checkout.FormatPhoneNumber(order.Phone),
			string(order.DeliveryMode),
			order.Address,
			order.Subtotal,
			order.Total,
			string(order.Status),
			order.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := writeRow(f, ordersSheet, i+2, row); err != nil {
			return fmt.Errorf("%s: %w", operation, err)
		}

		for _, line := range order.Lines {
			row := []interface{}{
				order.ID,
				line.ItemID,
				line.Name,
				string(line.Kind),
				string(line.Size),
				line.Quantity,
				line.UnitPrice,
				line.Subtotal,
				string(line.Configuration),
			}
			if err := writeRow(f, linesSheet, lineRow, row); err != nil {
				return fmt.Errorf("%s: %w", operation, err)
			}
			lineRow++
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(ordersSheet, 1, 1, style)
		_ = f.SetRowStyle(linesSheet, 1, 1, style)
	}

	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%s: failed to write workbook: %w", operation, err)
	}
	return nil
}

func toCells(headers []string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
