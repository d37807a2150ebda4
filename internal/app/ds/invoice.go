package ds

import "time"

// Статусы счета
const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
)

// Таблица счетов. Номер имеет вид ГГГГ-NNN и уникален в пределах года
type Invoice struct {
	ID           uint      `gorm:"primaryKey"`
	Number       string    `gorm:"type:varchar(20);unique;not null"`
	ResearcherID uint      `gorm:"not null;index"`
	Amount       float64   `gorm:"type:decimal(12,2);not null"` // сумма с НДС
	Status       string    `gorm:"type:varchar(10);not null;default:'pending'"`
	CreatedAt    time.Time `gorm:"not null"`

	Researcher Researcher `gorm:"foreignKey:ResearcherID"`
}
