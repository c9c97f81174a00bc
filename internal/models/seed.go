package models

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eduport/internal/config"
	console "eduport/internal/utils/logger"
)

var log = console.New("SEEDER")

// CreateSuperAdminFromEnv seeds the initial back-office account from
// ADMIN_EMAIL / ADMIN_PASSWORD. It is a no-op when the account exists or
// when no credentials are configured.
func CreateSuperAdminFromEnv(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping super admin seed")
		return nil
	}

	var existing AdminUser
	err := db.Where("email = ?", cfg.Admin.Email).First(&existing).Error
	if err == nil {
		log.Info("Super admin %s already exists", cfg.Admin.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup super admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := AdminUser{
		Email:    cfg.Admin.Email,
		Password: string(hash),
		FullName: cfg.Admin.Name,
		Role:     AdminRoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	log.Success("Seeded super admin %s", cfg.Admin.Email)
	return nil
}

// CheckPassword compares a plaintext candidate with the stored hash.
func (u *AdminUser) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate)) == nil
}
