package ds

// Таблица услуг лаборатории - ТОЛЬКО справочная информация
// Цена хранится отдельно для каждого тарифного класса; NULL трактуется как 0
type LabService struct {
	ID        uint     `gorm:"primaryKey"`
	Name      string   `gorm:"type:varchar(150);not null"`
	PriceA    *float64 `gorm:"type:decimal(10,2)"`
	PriceB    *float64 `gorm:"type:decimal(10,2)"`
	PriceC    *float64 `gorm:"type:decimal(10,2)"`
	Format    string   `gorm:"type:varchar(50)"` // формат выдачи результата
	IsDeleted bool     `gorm:"type:boolean;default:false;not null"`
}
