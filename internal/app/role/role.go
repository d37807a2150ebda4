package role

// Role определяет уровень доступа пользователя в системе
type Role int

const (
	Researcher Role = iota // исследователь - создает заявки
	Technician             // лаборант - ведет заявки по статусам
	Admin                  // администратор - управляет справочниками и счетами
)

func (r Role) String() string {
	switch r {
	case Researcher:
		return "researcher"
	case Technician:
		return "technician"
	case Admin:
		return "admin"
	}
	return "unknown"
}
