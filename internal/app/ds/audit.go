package ds

import "time"

// Таблица журнала действий
type AuditEntry struct {
	ID         uint      `gorm:"primaryKey"`
	Action     string    `gorm:"type:varchar(50);not null"` // CREATE INVOICE, UPDATE STATUS, ...
	EntityType string    `gorm:"type:varchar(30);not null"`
	EntityID   uint      `gorm:"not null"`
	Details    string    `gorm:"type:text"` // JSON-снимок изменения
	UserLogin  string    `gorm:"type:varchar(50)"`
	CreatedAt  time.Time `gorm:"not null"`
}
