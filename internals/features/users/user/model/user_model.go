package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	// PK
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`

	UserName  string `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserEmail string `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex" json:"user_email"`

	// NULL untuk akun yang login via Google
	UserPassword *string `gorm:"column:user_password;type:varchar(255)" json:"-"`
	UserGoogleID *string `gorm:"column:user_google_id;type:varchar(64);uniqueIndex" json:"-"`

	UserRole     string `gorm:"column:user_role;type:varchar(20);not null;default:teacher" json:"user_role"` // CHECK ('admin','teacher')
	UserIsActive bool   `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`

	// timestamps
	UserCreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string { return "users" }
