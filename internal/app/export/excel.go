package export

import (
	"bytes"
	"fmt"

	"labservices/internal/app/ds"

	"github.com/xuri/excelize/v2"
)

const invoicesSheet = "Invoices"

// InvoiceRegister собирает реестр счетов в книгу xlsx
func InvoiceRegister(invoices []ds.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.NewSheet(invoicesSheet)
	f.DeleteSheet("Sheet1") // Удаляем лист по умолчанию

	headers := []string{"Номер", "Исследователь", "Центр", "Сумма с НДС", "Статус", "Дата"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(invoicesSheet, cell, h)
	}

	for i, inv := range invoices {
		row := i + 2
		f.SetCellValue(invoicesSheet, fmt.Sprintf("A%d", row), inv.Number)
		f.SetCellValue(invoicesSheet, fmt.Sprintf("B%d", row), inv.Researcher.FullName)
		f.SetCellValue(invoicesSheet, fmt.Sprintf("C%d", row), inv.Researcher.Center)
		f.SetCellValue(invoicesSheet, fmt.Sprintf("D%d", row), inv.Amount)
		f.SetCellValue(invoicesSheet, fmt.Sprintf("E%d", row), inv.Status)
		f.SetCellValue(invoicesSheet, fmt.Sprintf("F%d", row), inv.CreatedAt.Format("02.01.2006"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
