package repository

import (
	"errors"
	"fmt"

	"labservices/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для работы со счетами

// CountInvoicesForYear считает счета года по префиксу номера.
// Живой счетчик на момент выдачи номера
func (r *Repository) CountInvoicesForYear(year int) (int64, error) {
	var count int64
	err := r.db.Model(&ds.Invoice{}).Where("number LIKE ?", fmt.Sprintf("%d-%%", year)).Count(&count).Error
	return count, err
}

// CreateInvoiceWithRequests создает счет и переводит его заявки в billed
// одной транзакцией: либо записывается все, либо ничего
func (r *Repository) CreateInvoiceWithRequests(invoice *ds.Invoice, requestIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}

		result := tx.Model(&ds.AnalysisRequest{}).
			Where("id IN ? AND invoice_id IS NULL", requestIDs).
			Updates(map[string]interface{}{
				"status":     ds.StatusBilled,
				"invoice_id": invoice.ID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(requestIDs)) {
			// часть заявок успели забрать в другой счет - откатываем все
			return errors.New("часть заявок уже включена в другой счет")
		}
		return nil
	})
}

func (r *Repository) GetInvoiceByID(id uint) (*ds.Invoice, error) {
	var invoice ds.Invoice
	err := r.db.Preload("Researcher").First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *Repository) ListInvoices(status string, year int) ([]ds.Invoice, error) {
	// сортировка по длине, затем по номеру: после 999 счетов в году
	// лексикографический порядок поставил бы 2025-1000 перед 2025-999
	query := r.db.Preload("Researcher").Order("length(number), number")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if year != 0 {
		query = query.Where("number LIKE ?", fmt.Sprintf("%d-%%", year))
	}

	var invoices []ds.Invoice
	err := query.Find(&invoices).Error
	return invoices, err
}

// MarkInvoicePaid отмечает счет оплаченным
func (r *Repository) MarkInvoicePaid(id uint) error {
	result := r.db.Model(&ds.Invoice{}).
		Where("id = ? AND status = ?", id, ds.InvoicePending).
		Update("status", ds.InvoicePaid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("счет не найден или уже оплачен")
	}
	return nil
}
