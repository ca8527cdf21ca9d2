package database

import (
	"fmt"
	"log"
	"os"

	"github.com/edumart/api/model"
	"github.com/edumart/api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedSupportUser(); err != nil {
		return fmt.Errorf("failed to seed support user: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme-admin"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        "admin@edumart.local",
		PasswordHash: hash,
		Name:         "Platform Admin",
		Role:         model.RoleAdmin,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Created default admin user:", admin.Email)
	return nil
}

// SeedSupportUser creates a default support staff account so ticket
// notifications have at least one recipient in fresh environments
func (s *Seeder) SeedSupportUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleSupport).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Support user already exists, skipping")
		return nil
	}

	password := os.Getenv("SUPPORT_PASSWORD")
	if password == "" {
		password = "changeme-support"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	support := model.User{
		Email:        "support@edumart.local",
		PasswordHash: hash,
		Name:         "Customer Support",
		Role:         model.RoleSupport,
	}

	if err := s.db.Create(&support).Error; err != nil {
		return err
	}

	log.Println("Created default support user:", support.Email)
	return nil
}
