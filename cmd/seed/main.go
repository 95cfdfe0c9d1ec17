package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/DivaAnanda/accenprove-sub001/internal/config"
	"github.com/DivaAnanda/accenprove-sub001/internal/database"
	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.BeritaAcara{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	seedUsers := []struct {
		email     string
		password  string
		firstName string
		lastName  string
		role      string
	}{
		{"admin@accenprove.local", "admin12345", "System", "Admin", models.RoleAdmin},
		{"direksi@accenprove.local", "direksi12345", "Dewi", "Direksi", models.RoleDireksi},
		{"dk@accenprove.local", "dk1234567", "Komisaris", "Utama", models.RoleDK},
		{"vendor@accenprove.local", "vendor12345", "Vendor", "Satu", models.RoleVendor},
	}

	for _, s := range seedUsers {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", s.email).Count(&count).Error; err != nil {
			log.Fatal("Failed to check user:", err)
		}
		if count > 0 {
			fmt.Printf("– %s already exists, skipping\n", s.email)
			continue
		}

		user := models.User{
			UUID:      uuid.NewString(),
			Email:     s.email,
			FirstName: s.firstName,
			LastName:  s.lastName,
			Role:      s.role,
			IsActive:  true,
		}
		if err := user.SetPassword(s.password); err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatal("Failed to create user:", err)
		}
		fmt.Printf("✓ Created %s user %s\n", s.role, s.email)
	}

	fmt.Println("✓ Seed complete")
}
