package repository

import (
	"database/sql"
	"errors"

	"labservices/internal/app/ds"
)

// Методы для работы с услугами лаборатории

// Получить все услуги из БД
func (r *Repository) GetAllServices() ([]ds.LabService, error) {
	var services []ds.LabService
	err := r.db.Where("is_deleted = ?", false).Order("id").Find(&services).Error
	return services, err
}

// Поиск услуг по имени
func (r *Repository) SearchServicesByName(name string) ([]ds.LabService, error) {
	var services []ds.LabService
	err := r.db.Where("name LIKE ? AND is_deleted = ?", "%"+name+"%", false).Order("id").Find(&services).Error
	return services, err
}

// Получить услугу по ID
func (r *Repository) GetServiceByID(id uint) (*ds.LabService, error) {
	// Используем курсор
	query := `SELECT id, name, price_a, price_b, price_c, format
	          FROM lab_services
	          WHERE id = ? AND is_deleted = false`

	row := r.db.Raw(query, id).Row()

	var service ds.LabService
	err := row.Scan(&service.ID, &service.Name, &service.PriceA, &service.PriceB, &service.PriceC, &service.Format)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Возвращаем nil, если записи нет
		}
		return nil, err
	}

	return &service, nil
}

// GetServicesMap возвращает справочник услуг по ID - снимок для биллинга.
// Логически удаленные услуги не включаются: их заявки получат нулевую
// стоимость с пометкой unpriced
func (r *Repository) GetServicesMap() (map[uint]ds.LabService, error) {
	services, err := r.GetAllServices()
	if err != nil {
		return nil, err
	}

	result := make(map[uint]ds.LabService, len(services))
	for _, service := range services {
		result[service.ID] = service
	}
	return result, nil
}

func (r *Repository) ServiceExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&ds.LabService{}).Where("id = ? AND is_deleted = ?", id, false).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateService(service *ds.LabService) error {
	return r.db.Create(service).Error
}

func (r *Repository) UpdateService(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.LabService{}).Where("id = ?", id).Updates(updates).Error
}

// Логическое удаление услуги
func (r *Repository) DeleteService(id uint) error {
	return r.db.Model(&ds.LabService{}).Where("id = ?", id).Update("is_deleted", true).Error
}
