package database

import (
	"log"
	"os"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/utils/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultSettings are created once and only ever updated afterwards. The
// admin settings surface edits values; it never invents new keys at runtime.
var defaultSettings = []model.AppSetting{
	{Key: "site.title", Value: "Elevate Academy", Type: "string", Category: "site", IsPublic: true, Description: "Site name shown in the header and page titles"},
	{Key: "site.tagline", Value: "Practical AI skills for everyone", Type: "string", Category: "site", IsPublic: true, Description: "Tagline on the landing page hero"},
	{Key: "site.contact_email", Value: "hello@elevateacademy.ng", Type: "string", Category: "site", IsPublic: true, Description: "Public contact email"},
	{Key: "site.whatsapp_number", Value: "", Type: "string", Category: "site", IsPublic: true, Description: "WhatsApp contact number shown on the site"},
	{Key: "membership.fee_naira", Value: "15000", Type: "int", Category: "membership", IsPublic: true, Description: "Annual membership fee in naira"},
	{Key: "membership.registration_open", Value: "true", Type: "bool", Category: "membership", IsPublic: true, Description: "Whether new registrations are accepted"},
	{Key: "payments.bank_name", Value: "", Type: "string", Category: "payments", IsPublic: true, Description: "Bank name for transfer payments"},
	{Key: "payments.account_number", Value: "", Type: "string", Category: "payments", IsPublic: true, Description: "Account number for transfer payments"},
	{Key: "payments.account_name", Value: "Elevate Academy Ltd", Type: "string", Category: "payments", IsPublic: true, Description: "Account name for transfer payments"},
	{Key: "reviews.auto_publish", Value: "false", Type: "bool", Category: "moderation", IsPublic: false, Description: "Skip moderation queue for new reviews"},
}

// Seed makes sure the default settings exist and, on a fresh database,
// creates the bootstrap admin account from ADMIN_EMAIL/ADMIN_PASSWORD.
func Seed(db *gorm.DB) error {
	if err := seedSettings(db); err != nil {
		return err
	}
	return seedAdmin(db)
}

func seedSettings(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&defaultSettings).Error
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("No admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set; skipping admin seed")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:            email,
		PasswordHash:     hash,
		FullName:         "Administrator",
		Role:             model.RoleAdmin,
		MembershipStatus: model.MembershipActive,
		PaymentStatus:    model.PaymentVerified,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded bootstrap admin account %s", email)
	return nil
}
