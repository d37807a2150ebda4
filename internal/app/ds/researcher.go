package ds

// Таблица исследователей (плательщики по счетам)
type Researcher struct {
	ID       uint    `gorm:"primaryKey"`
	FullName string  `gorm:"type:varchar(100);not null"`
	Center   string  `gorm:"type:varchar(150)"` // институт или центр
	Tariff   *string `gorm:"type:varchar(1)"`   // A, B, C; NULL трактуется как C при расчете
	Email    string  `gorm:"type:varchar(100)"`
	Phone    string  `gorm:"type:varchar(30)"`
	FiscalID string  `gorm:"type:varchar(30)"` // фискальный идентификатор для счетов
}
