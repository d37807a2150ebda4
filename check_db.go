package main

import (
	"fmt"
	"log"

	"labservices/internal/app/ds"
	"labservices/internal/app/dsn"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	db, err := gorm.Open(sqlite.Open(dsn.FromEnv()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var services []ds.LabService
	err = db.Find(&services).Error
	if err != nil {
		log.Fatal("Failed to get services:", err)
	}

	fmt.Println("Services in database:")
	for _, service := range services {
		priceC := "NULL"
		if service.PriceC != nil {
			priceC = fmt.Sprintf("%.2f", *service.PriceC)
		}
		fmt.Printf("ID: %d, Name: %s, PriceC: %s, Deleted: %v\n", service.ID, service.Name, priceC, service.IsDeleted)
	}
}
