package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelasku_backend/internals/configs"
	authModel "kelasku_backend/internals/features/users/auth/model"
	userModel "kelasku_backend/internals/features/users/user/model"
)

const (
	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET belum diset")
	}
	return secret, nil
}

// GenerateAccessToken: JWT HS256 dengan claims sub/name/role.
func GenerateAccessToken(u *userModel.UserModel) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  u.UserID.String(),
		"name": u.UserName,
		"role": u.UserRole,
		"iat":  now.Unix(),
		"exp":  now.Add(AccessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GenerateRefreshToken: JWT terpisah + simpan HASH-nya di DB (rotasi saat refresh).
func GenerateRefreshToken(db *gorm.DB, u *userModel.UserModel) (string, error) {
	secret, err := getRefreshSecret()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": u.UserID.String(),
		"iat": now.Unix(),
		"exp": now.Add(RefreshTTL).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	rec := authModel.RefreshTokenModel{
		RefreshTokenUserID:    u.UserID,
		RefreshTokenHash:      ComputeRefreshHash(raw, secret),
		RefreshTokenExpiresAt: now.Add(RefreshTTL),
	}
	if err := db.Create(&rec).Error; err != nil {
		return "", err
	}
	return raw, nil
}

// ComputeRefreshHash: HMAC-SHA256(token, secret) → hex.
func ComputeRefreshHash(raw, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseRefreshToken: validasi JWT refresh + pastikan hash-nya masih terdaftar.
func ParseRefreshToken(db *gorm.DB, raw string) (uuid.UUID, error) {
	secret, err := getRefreshSecret()
	if err != nil {
		return uuid.Nil, err
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token invalid")
	}

	var exists bool
	h := ComputeRefreshHash(raw, secret)
	if err := db.Raw(`SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE refresh_token_hash = ?)`, h).Scan(&exists).Error; err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "DB error")
	}
	if !exists {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token tidak dikenal")
	}
	return userID, nil
}

// DeleteRefreshToken: hapus hash token lama (rotasi / logout).
func DeleteRefreshToken(db *gorm.DB, raw string) error {
	secret, err := getRefreshSecret()
	if err != nil {
		return err
	}
	h := ComputeRefreshHash(raw, secret)
	return db.Delete(&authModel.RefreshTokenModel{}, "refresh_token_hash = ?", h).Error
}
