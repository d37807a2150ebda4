package main

import (
	"log"

	"labservices/internal/app/ds"
	"labservices/internal/app/dsn"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	// Подключение к базе данных
	db, err := gorm.Open(sqlite.Open(dsn.FromEnv()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	// Миграция всех моделей
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Researcher{},
		&ds.LabService{},
		&ds.AnalysisRequest{},
		&ds.Invoice{},
		&ds.AuditEntry{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migration completed successfully")

	seedCatalog(db)
	seedAdmin(db)
}

// seedCatalog наполняет справочник услуг, если он пуст
func seedCatalog(db *gorm.DB) {
	var count int64
	if err := db.Model(&ds.LabService{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	price := func(v float64) *float64 { return &v }

	services := []ds.LabService{
		{Name: "Спектральный анализ", PriceA: price(50), PriceB: price(40), PriceC: price(60), Format: "PDF-отчет"},
		{Name: "Хроматография", PriceA: price(80), PriceB: price(65), PriceC: price(95), Format: "PDF-отчет"},
		{Name: "Микроскопия", PriceA: price(35), PriceB: price(28), PriceC: price(42), Format: "Изображения"},
		{Name: "Элементный анализ", PriceA: price(120), PriceB: price(100), PriceC: price(140), Format: "CSV-таблица"},
	}

	if err := db.Create(&services).Error; err != nil {
		log.Printf("Failed to seed services: %v", err)
		return
	}
	log.Printf("Seeded %d services", len(services))
}

// seedAdmin создает администратора по умолчанию, если пользователей нет.
// Пароль захеширован SHA-1, как в обработчике регистрации
func seedAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&ds.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	admin := ds.User{
		Login:    "admin",
		Password: "d033e22ae348aeb5660fc2140aec35850c4da997", // sha1("admin")
		FullName: "Администратор",
		Role:     2,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Println("Seeded default admin user")
}
