package config

import (
	"log"

	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedUsers(); err != nil {
		log.Printf("⚠️ User seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedUsers seeds demo accounts for each role.
// This is for development/testing only; in production accounts are
// created through the admin user management endpoints.
func (s *Seeder) seedUsers() error {
	var count int64
	s.db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	seeds := []struct {
		name     string
		email    string
		password string
		role     domain.Role
	}{
		{"John Doe", "john.doe@" + s.cfg.Auth.EmailDomain, "student123", domain.RoleStudent},
		{"Admin User", "admin@" + s.cfg.Auth.EmailDomain, "admin123", domain.RoleAdmin},
		{"Gate Security", "security@" + s.cfg.Auth.EmailDomain, "security123", domain.RoleSecurity},
	}

	for _, seed := range seeds {
		hashed, err := password.Hash(seed.password)
		if err != nil {
			return err
		}

		user := &models.User{
			Name:     seed.name,
			Email:    seed.email,
			Password: hashed,
			Role:     string(seed.role),
		}

		if err := s.db.Create(user).Error; err != nil {
			return err
		}

		log.Printf("✅ Seeded %s user: %s", seed.role, seed.email)
	}

	return nil
}
