package billing

import "fmt"

// NextInvoiceNumber возвращает следующий номер счета в формате ГГГГ-NNN.
// existing - число уже выставленных счетов в данном году на момент выдачи;
// при пакетной генерации вызывающая сторона обязана учитывать счета,
// созданные ранее в том же пакете.
func NextInvoiceNumber(year int, existing int64) string {
	return fmt.Sprintf("%d-%03d", year, existing+1)
}
