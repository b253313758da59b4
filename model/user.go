package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleGuest   = "guest"
)

// Membership statuses
const (
	MembershipPending   = "pending"
	MembershipActive    = "active"
	MembershipSuspended = "suspended"
	MembershipExpired   = "expired"
)

// Payment statuses mirrored onto the user record
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
	PaymentExpired  = "expired"
)

// User represents a registered community member
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	FullName     string         `gorm:"not null" json:"full_name"`
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // admin, student, guest

	// Membership and payment are independent axes: a student can be
	// payment-verified but still suspended, and vice versa.
	MembershipStatus string `gorm:"type:varchar(20);default:'pending';index" json:"membership_status"`
	PaymentStatus    string `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	MemberID         string `gorm:"type:varchar(30);index" json:"member_id,omitempty"` // assigned on activation, e.g. "ELV-2026-0042"

	TokenVersion int `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Reviews      []Review        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Testimonials []Testimonial   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Payments     []Payment       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuditLog     []AdminAuditLog `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStudent || role == RoleGuest
}

// IsValidMembershipStatus reports whether status is a known membership state.
func IsValidMembershipStatus(status string) bool {
	switch status {
	case MembershipPending, MembershipActive, MembershipSuspended, MembershipExpired:
		return true
	}
	return false
}

// Sanitize strips credential material before the record leaves the API layer.
func (u *User) Sanitize() {
	u.PasswordHash = ""
}
