package repository

import (
	"encoding/json"
	"time"

	"labservices/internal/app/ds"

	"github.com/sirupsen/logrus"
)

// LogAction пишет запись журнала действий. Ошибка записи журнала
// не должна блокировать основную операцию - логируем и гасим
func (r *Repository) LogAction(action, entityType string, entityID uint, details interface{}, userLogin string) {
	payload := ""
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logrus.Warnf("audit: cannot marshal details for %s: %v", action, err)
		} else {
			payload = string(data)
		}
	}

	entry := ds.AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    payload,
		UserLogin:  userLogin,
		CreatedAt:  time.Now(),
	}

	if err := r.db.Create(&entry).Error; err != nil {
		logrus.Errorf("audit: cannot write entry %s %s/%d: %v", action, entityType, entityID, err)
	}
}

// ListAuditEntries возвращает последние записи журнала
func (r *Repository) ListAuditEntries(limit int) ([]ds.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []ds.AuditEntry
	err := r.db.Order("id desc").Limit(limit).Find(&entries).Error
	return entries, err
}
