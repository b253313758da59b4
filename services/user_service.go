package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elevateacademy/portal-api/model"
	"github.com/elevateacademy/portal-api/services/bulk"
	"github.com/elevateacademy/portal-api/services/listview"
	"github.com/elevateacademy/portal-api/utils/auth"
	"github.com/elevateacademy/portal-api/utils/errs"
	"gorm.io/gorm"
)

// UserService handles member accounts and the admin operations surface:
// create, delete, password reset, and the membership lifecycle.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUserRequest is the admin-side account creation payload.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=admin student guest"`
}

// All returns every user, most recent first.
func (s *UserService) All(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return users, nil
}

// ByID returns one user by id.
func (s *UserService) ByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &user, nil
}

// ByEmail returns one user by email address.
func (s *UserService) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errs.Normalize(err)
	}
	return &user, nil
}

// Create registers a new account. The unique index on email is the
// authoritative duplicate check; a racing second insert comes back as
// ErrDuplicateSubmission.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !model.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", errs.ErrValidation, role)
	}

	user := model.User{
		Email:            req.Email,
		PasswordHash:     hash,
		FullName:         req.FullName,
		Role:             role,
		MembershipStatus: model.MembershipPending,
		PaymentStatus:    model.PaymentPending,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errs.IsDuplicateKey(err) {
			return nil, errs.ErrDuplicateSubmission
		}
		return nil, errs.Normalize(err)
	}

	return &user, nil
}

// Delete removes a user permanently along with their owned records.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&model.User{}, id)
	if result.Error != nil {
		return errs.Normalize(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the user's password and bumps the token version so
// every outstanding session token stops working.
func (s *UserService) UpdatePassword(ctx context.Context, id uint, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", errs.ErrValidation)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"token_version": gorm.Expr("token_version + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return errs.Normalize(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetMembershipStatus moves a user between membership states. Activation
// assigns the member id if the user does not have one yet.
func (s *UserService) SetMembershipStatus(ctx context.Context, id uint, status string) (*model.User, error) {
	if !model.IsValidMembershipStatus(status) {
		return nil, fmt.Errorf("%w: unknown membership status %q", errs.ErrValidation, status)
	}

	user, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"membership_status": status,
		"updated_at":        time.Now(),
	}
	if status == model.MembershipActive && user.MemberID == "" {
		memberID, err := s.nextMemberID(ctx)
		if err != nil {
			return nil, err
		}
		updates["member_id"] = memberID
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, errs.Normalize(err)
	}

	return s.ByID(ctx, id)
}

// nextMemberID allocates the next sequential member code for the current
// year, formatted like "ELV-2026-0042".
func (s *UserService) nextMemberID(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("ELV-%d-", year)

	// Codes are zero padded, so the lexicographic max carries the highest
	// sequence. Counting rows would hand out an existing code again after
	// a member is deleted.
	var last string
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("member_id LIKE ?", prefix+"%").
		Select("COALESCE(MAX(member_id), '')").
		Scan(&last).Error
	if err != nil {
		return "", errs.Normalize(err)
	}

	next := 1
	if last != "" {
		seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed member id %q: %w", last, err)
		}
		next = seq + 1
	}

	return fmt.Sprintf("%s%04d", prefix, next), nil
}

// UserBulkTarget adapts UserService to the bulk dispatcher for the member
// management screen.
type UserBulkTarget struct {
	Service  *UserService
	Exported []model.User
}

// Apply maps each bulk action onto exactly one service call.
func (t *UserBulkTarget) Apply(ctx context.Context, action bulk.Action, id uint) error {
	switch action {
	case bulk.ActionApprove:
		_, err := t.Service.SetMembershipStatus(ctx, id, model.MembershipActive)
		return err
	case bulk.ActionReject:
		_, err := t.Service.SetMembershipStatus(ctx, id, model.MembershipSuspended)
		return err
	case bulk.ActionDelete:
		return t.Service.Delete(ctx, id)
	case bulk.ActionExport:
		user, err := t.Service.ByID(ctx, id)
		if err != nil {
			return err
		}
		user.Sanitize()
		t.Exported = append(t.Exported, *user)
		return nil
	default:
		return fmt.Errorf("%w: action %q not supported for users", errs.ErrValidation, action)
	}
}

// UserListAdapter teaches the listview engine to read members.
func UserListAdapter() listview.Adapter[model.User] {
	return listview.Adapter[model.User]{
		ID: func(u model.User) uint { return u.ID },
		SearchText: func(u model.User) []string {
			return []string{u.FullName, u.Email, u.MemberID}
		},
		FilterValue: func(u model.User, field string) string {
			switch field {
			case "role":
				return u.Role
			case "membership_status":
				return u.MembershipStatus
			case "payment_status":
				return u.PaymentStatus
			}
			return ""
		},
		SortValue: func(u model.User, key string) listview.SortValue {
			switch key {
			case "full_name":
				return listview.StringValue(u.FullName)
			case "email":
				return listview.StringValue(u.Email)
			case "member_id":
				if u.MemberID == "" {
					return listview.NullValue()
				}
				return listview.StringValue(u.MemberID)
			case "created_at":
				return listview.TimeValue(u.CreatedAt)
			case "updated_at":
				return listview.TimeValue(u.UpdatedAt)
			}
			return listview.NullValue()
		},
	}
}
