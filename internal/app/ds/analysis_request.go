package ds

import "time"

// Статусы заявки на обработку проб
const (
	StatusPending    = "pending"    // зарегистрирована
	StatusReceived   = "received"   // пробы получены
	StatusAnalysis   = "analysis"   // в работе
	StatusValidation = "validation" // проверка результатов
	StatusCompleted  = "completed"  // работа завершена
	StatusProcessed  = "processed"  // результаты выданы
	StatusBilled     = "billed"     // включена в счет
)

// Таблица заявок на обработку проб
type AnalysisRequest struct {
	ID                 uint      `gorm:"primaryKey"`
	RegistrationNumber string    `gorm:"type:varchar(30);unique;not null"`
	EntryDate          time.Time `gorm:"not null;index"` // дата поступления проб, по ней фильтруется биллинг
	ResearcherID       uint      `gorm:"not null;index"`
	ServiceID          uint      `gorm:"not null;index"`
	SamplesCount       int       `gorm:"type:int;default:1"`
	FinalSamplesCount  *int      `gorm:"type:int"` // итоговое число проб, имеет приоритет при расчете
	Status             string    `gorm:"type:varchar(20);not null;default:'pending'"`
	InvoiceID          *uint     `gorm:"index"` // NULL пока заявка не выставлена в счет
	CreatedAt          time.Time `gorm:"not null"`

	Researcher Researcher `gorm:"foreignKey:ResearcherID"`
	Service    LabService `gorm:"foreignKey:ServiceID"`
}

// nextStatus - линейная часть машины статусов
var nextStatus = map[string]string{
	StatusPending:    StatusReceived,
	StatusReceived:   StatusAnalysis,
	StatusAnalysis:   StatusValidation,
	StatusValidation: StatusCompleted,
	StatusCompleted:  StatusProcessed,
	StatusProcessed:  StatusBilled,
}

// CanTransition проверяет допустимость перехода статуса.
// Разрешены шаг вперед по цепочке и возврат в pending ("restore")
// из любого статуса кроме billed.
func CanTransition(from, to string) bool {
	if to == StatusPending {
		return from != StatusBilled && from != StatusPending
	}
	return nextStatus[from] == to
}

// BillableStatus - статусы, в которых заявка подлежит включению в счет
func BillableStatus(status string) bool {
	return status == StatusProcessed || status == StatusCompleted
}
