package export

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/tealeg/xlsx"

	"github.com/spendsync/spendsync/pkg/database"
)

const sheetName = "Transactions"

// WriteXLSX renders the transaction log (given newest-first, written as-is)
// into a spreadsheet.
func WriteXLSX(transactions []database.Transaction, w io.Writer) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return errors.Wrap(err, "add sheet")
	}

	header := sheet.AddRow()
	for _, title := range []string{"Date", "Merchant", "Description", "Category", "Type", "Amount"} {
		header.AddCell().Value = title
	}

	for _, tx := range transactions {
		row := sheet.AddRow()
		row.AddCell().Value = tx.Date
		row.AddCell().Value = tx.Merchant
		row.AddCell().Value = tx.Description
		row.AddCell().Value = string(tx.Category)
		row.AddCell().Value = string(tx.Type)
		row.AddCell().Value = tx.Amount.String()
	}

	if err = file.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}

	return nil
}
