package dsn

import "os"

// FromEnv возвращает путь к файлу базы SQLite из переменной окружения.
// Если переменная не задана, используется файл рядом с приложением.
func FromEnv() string {
	if path := os.Getenv("DB_PATH"); path != "" {
		return path
	}
	return "labservices.db"
}
