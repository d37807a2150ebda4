package ds

// Таблица пользователей системы
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Login    string `gorm:"type:varchar(50);unique;not null"`
	Password string `gorm:"type:varchar(255);not null"`
	Role     int    `gorm:"type:int;default:0;not null"` // 0 - исследователь, 1 - лаборант, 2 - администратор
	Email    string `gorm:"type:varchar(100)"`
	FullName string `gorm:"type:varchar(100)"`

	// Привязка учетной записи к исследователю. Заполняется только для
	// роли "исследователь" и ограничивает видимость заявок своими
	ResearcherID *uint `gorm:"index"`
}
