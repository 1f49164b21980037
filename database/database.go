package database

import (
	"errors"
	"fmt"

	config "github.com/anjiri1684/talent_booking/configs"
	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func ConnectDB(cfg config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.Info("✅ Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB, log logger.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Payment{},
		&models.Gig{},
		&models.GigApplication{},
		&models.Notification{},
		&models.ChatMessage{},
		&models.ChangeEvent{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Info("✅ Database migration successful")
	return nil
}

// AdminSeed names the admin profile created at startup.
type AdminSeed struct {
	ID       string
	Email    string
	FullName string
}

// SeedAdmin makes sure the configured admin has a profile row with the admin role.
// Credentials live with the auth provider; only the profile is stored here.
func SeedAdmin(db *gorm.DB, seed AdminSeed, log logger.Logger) error {
	if seed.ID == "" || seed.Email == "" {
		log.Warn("⚠️ ADMIN_USER_ID or ADMIN_EMAIL not set, skipping admin seed")
		return nil
	}
	id, err := uuid.Parse(seed.ID)
	if err != nil {
		return fmt.Errorf("admin user id: %w", err)
	}

	var existing models.User
	err = db.First(&existing, "id = ?", id).Error
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			if err := db.Model(&existing).Update("role", models.RoleAdmin).Error; err != nil {
				return fmt.Errorf("promote admin user: %w", err)
			}
		}
		log.Info("Admin user already exists.")
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("check for admin user: %w", err)
	}

	fullName := seed.FullName
	if fullName == "" {
		fullName = "Administrator"
	}
	admin := models.User{ID: id, FullName: fullName, Email: seed.Email, Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	log.Info("✅ Admin user seeded successfully")
	return nil
}
