package repository

import (
	"labservices/internal/app/ds"
)

// Методы для работы с исследователями

func (r *Repository) GetAllResearchers() ([]ds.Researcher, error) {
	var researchers []ds.Researcher
	err := r.db.Order("id").Find(&researchers).Error
	return researchers, err
}

// Поиск исследователей по имени или центру
func (r *Repository) SearchResearchers(query string) ([]ds.Researcher, error) {
	var researchers []ds.Researcher
	pattern := "%" + query + "%"
	err := r.db.Where("full_name LIKE ? OR center LIKE ?", pattern, pattern).Order("id").Find(&researchers).Error
	return researchers, err
}

func (r *Repository) GetResearcherByID(id uint) (*ds.Researcher, error) {
	var researcher ds.Researcher
	err := r.db.First(&researcher, id).Error
	if err != nil {
		return nil, err
	}
	return &researcher, nil
}

// GetResearchersMap возвращает всех исследователей по ID - снимок для биллинга
func (r *Repository) GetResearchersMap() (map[uint]ds.Researcher, error) {
	researchers, err := r.GetAllResearchers()
	if err != nil {
		return nil, err
	}

	result := make(map[uint]ds.Researcher, len(researchers))
	for _, researcher := range researchers {
		result[researcher.ID] = researcher
	}
	return result, nil
}

func (r *Repository) CreateResearcher(researcher *ds.Researcher) error {
	return r.db.Create(researcher).Error
}

func (r *Repository) UpdateResearcher(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.Researcher{}).Where("id = ?", id).Updates(updates).Error
}

// Удаление исследователя. Каскада нет: заявки сохраняют researcher_id
// и при группировке попадают в список пропущенных
func (r *Repository) DeleteResearcher(id uint) error {
	return r.db.Delete(&ds.Researcher{}, id).Error
}
