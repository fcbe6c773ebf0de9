package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel menyimpan HASH refresh token (bukan token mentah).
type RefreshTokenModel struct {
	RefreshTokenID        uuid.UUID `gorm:"column:refresh_token_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"refresh_token_id"`
	RefreshTokenUserID    uuid.UUID `gorm:"column:refresh_token_user_id;type:uuid;not null;index" json:"refresh_token_user_id"`
	RefreshTokenHash      string    `gorm:"column:refresh_token_hash;type:varchar(128);not null;uniqueIndex" json:"-"`
	RefreshTokenExpiresAt time.Time `gorm:"column:refresh_token_expires_at;not null" json:"refresh_token_expires_at"`
	RefreshTokenCreatedAt time.Time `gorm:"column:refresh_token_created_at;autoCreateTime" json:"refresh_token_created_at"`
}

func (RefreshTokenModel) TableName() string { return "refresh_tokens" }
