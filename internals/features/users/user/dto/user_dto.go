package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"kelasku_backend/internals/constants"
	model "kelasku_backend/internals/features/users/user/model"
)

/* =========================================================
   REQUEST: UPDATE (admin)
   ========================================================= */

type UserUpdateReq struct {
	UserName     *string `json:"user_name,omitempty"`
	UserRole     *string `json:"user_role,omitempty"`
	UserIsActive *bool   `json:"user_is_active,omitempty"`
}

func (r *UserUpdateReq) Normalize() {
	if r.UserName != nil {
		n := strings.TrimSpace(*r.UserName)
		if n == "" {
			r.UserName = nil
		} else {
			r.UserName = &n
		}
	}
	if r.UserRole != nil {
		role := strings.ToLower(strings.TrimSpace(*r.UserRole))
		r.UserRole = &role
	}
}

func (r *UserUpdateReq) Validate() error {
	if r.UserRole != nil {
		switch *r.UserRole {
		case constants.RoleAdmin, constants.RoleTeacher:
		default:
			return errors.New("invalid user_role")
		}
	}
	return nil
}

func (r *UserUpdateReq) Apply(m *model.UserModel) {
	if r.UserName != nil {
		m.UserName = *r.UserName
	}
	if r.UserRole != nil {
		m.UserRole = *r.UserRole
	}
	if r.UserIsActive != nil {
		m.UserIsActive = *r.UserIsActive
	}
}

/* =========================================================
   RESPONSE DTO
   ========================================================= */

type UserResp struct {
	UserID        uuid.UUID `json:"user_id"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	UserRole      string    `json:"user_role"`
	UserIsActive  bool      `json:"user_is_active"`
	UserCreatedAt time.Time `json:"user_created_at"`
	UserUpdatedAt time.Time `json:"user_updated_at"`
}

func FromModel(m *model.UserModel) UserResp {
	return UserResp{
		UserID:        m.UserID,
		UserName:      m.UserName,
		UserEmail:     m.UserEmail,
		UserRole:      m.UserRole,
		UserIsActive:  m.UserIsActive,
		UserCreatedAt: m.UserCreatedAt,
		UserUpdatedAt: m.UserUpdatedAt,
	}
}
