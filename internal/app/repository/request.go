package repository

import (
	"errors"
	"fmt"
	"time"

	"labservices/internal/app/ds"
)

// Методы для работы с заявками на обработку проб

// ListRequests возвращает заявки с фильтрами для списочных экранов.
// researcherID ограничивает выборку заявками одного исследователя
func (r *Repository) ListRequests(status string, dateFrom, dateTo *time.Time, researcherID *uint) ([]ds.AnalysisRequest, error) {
	query := r.db.Preload("Researcher").Preload("Service").Order("entry_date desc")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if dateFrom != nil {
		query = query.Where("entry_date >= ?", *dateFrom)
	}
	if dateTo != nil {
		endOfDay := time.Date(dateTo.Year(), dateTo.Month(), dateTo.Day(), 23, 59, 59, 0, dateTo.Location())
		query = query.Where("entry_date <= ?", endOfDay)
	}
	if researcherID != nil {
		query = query.Where("researcher_id = ?", *researcherID)
	}

	var requests []ds.AnalysisRequest
	err := query.Find(&requests).Error
	return requests, err
}

// ListBillableRequests - заявки, подлежащие включению в счета:
// статус processed/completed, счета еще нет, дата поступления в диапазоне
func (r *Repository) ListBillableRequests(from, to time.Time) ([]ds.AnalysisRequest, error) {
	endOfDay := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, to.Location())

	var requests []ds.AnalysisRequest
	err := r.db.
		Where("status IN ?", []string{ds.StatusProcessed, ds.StatusCompleted}).
		Where("invoice_id IS NULL").
		Where("entry_date >= ? AND entry_date <= ?", from, endOfDay).
		Order("id").
		Find(&requests).Error
	return requests, err
}

func (r *Repository) GetRequestByID(id uint) (*ds.AnalysisRequest, error) {
	var request ds.AnalysisRequest
	err := r.db.Preload("Researcher").Preload("Service").First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *Repository) CreateRequest(request *ds.AnalysisRequest) error {
	return r.db.Create(request).Error
}

// NextRegistrationNumber выдает регистрационный номер вида REG-ГГГГ-NNNN.
// Нумерация по количеству заявок года, как у счетов
func (r *Repository) NextRegistrationNumber(year int) (string, error) {
	var count int64
	prefix := fmt.Sprintf("REG-%d-", year)
	err := r.db.Model(&ds.AnalysisRequest{}).Where("registration_number LIKE ?", prefix+"%").Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// UpdateRequestCounts обновляет количество проб
func (r *Repository) UpdateRequestCounts(id uint, samplesCount *int, finalSamplesCount *int) error {
	updates := map[string]interface{}{}
	if samplesCount != nil {
		updates["samples_count"] = *samplesCount
	}
	if finalSamplesCount != nil {
		updates["final_samples_count"] = *finalSamplesCount
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.AnalysisRequest{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateRequestStatus переводит заявку в новый статус с проверкой машины статусов
func (r *Repository) UpdateRequestStatus(id uint, newStatus string) error {
	request, err := r.GetRequestByID(id)
	if err != nil {
		return err
	}

	if !ds.CanTransition(request.Status, newStatus) {
		return fmt.Errorf("переход %s -> %s запрещен", request.Status, newStatus)
	}

	return r.db.Model(&ds.AnalysisRequest{}).Where("id = ?", id).Update("status", newStatus).Error
}

// RestoreRequest возвращает заявку в pending ("restore"). SQL операция,
// статус billed не трогаем
func (r *Repository) RestoreRequest(id uint) error {
	result := r.db.Exec("UPDATE analysis_requests SET status = 'pending' WHERE id = ? AND status != 'billed' AND status != 'pending'", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("заявку нельзя восстановить - неверный статус или ID")
	}
	return nil
}

// Удаление заявки допустимо только в статусе pending
func (r *Repository) DeleteRequest(id uint) error {
	result := r.db.Where("id = ? AND status = ?", id, ds.StatusPending).Delete(&ds.AnalysisRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("заявку нельзя удалить - неверный статус или ID")
	}
	return nil
}

// ListRequestsByInvoice - заявки, вошедшие в счет
func (r *Repository) ListRequestsByInvoice(invoiceID uint) ([]ds.AnalysisRequest, error) {
	var requests []ds.AnalysisRequest
	err := r.db.Preload("Service").Where("invoice_id = ?", invoiceID).Order("id").Find(&requests).Error
	return requests, err
}
