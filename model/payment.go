package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment represents a membership payment claim submitted by a user and
// verified (or rejected) by an admin. Status values share the Payment*
// constants on the user record.
type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Reference   string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`
	AmountNaira float64        `gorm:"not null" json:"amount_naira"`
	Method      string         `gorm:"type:varchar(50)" json:"method"` // bank_transfer, card, ussd
	Status      string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	VerifiedBy  *uint          `json:"verified_by,omitempty"` // admin user id
	VerifiedAt  *time.Time     `json:"verified_at,omitempty"`
	Note        string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
