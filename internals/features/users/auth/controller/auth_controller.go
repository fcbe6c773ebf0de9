package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kelasku_backend/internals/configs"
	"kelasku_backend/internals/constants"
	authDTO "kelasku_backend/internals/features/users/auth/dto"
	authService "kelasku_backend/internals/features/users/auth/service"
	userDTO "kelasku_backend/internals/features/users/user/dto"
	userModel "kelasku_backend/internals/features/users/user/model"
	helper "kelasku_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *AuthController {
	return &AuthController{DB: db, Validate: v}
}

func setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Expires:  time.Now().Add(authService.RefreshTTL),
	})
}

func (h *AuthController) issueTokens(c *fiber.Ctx, u *userModel.UserModel) error {
	access, err := authService.GenerateAccessToken(u)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	refresh, err := authService.GenerateRefreshToken(h.DB, u)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	setRefreshCookie(c, refresh)

	return helper.JsonOK(c, "ok", authDTO.AuthResponse{
		AccessToken: access,
		User:        userDTO.FromModel(u),
	})
}

// POST /api/auth/register
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	hash, err := authService.HashPassword(req.UserPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	u := userModel.UserModel{
		UserName:     req.UserName,
		UserEmail:    req.UserEmail,
		UserPassword: &hash,
		UserRole:     constants.RoleTeacher,
		UserIsActive: true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return h.issueTokens(c, &u)
}

// POST /api/auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var u userModel.UserModel
	if err := h.DB.First(&u, "user_email = ?", req.UserEmail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if u.UserPassword == nil || !authService.CheckPassword(*u.UserPassword, req.UserPassword) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if !u.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	return h.issueTokens(c, &u)
}

// POST /api/auth/login-google
// Body: { id_token } → verifikasi ke Google, find-or-create user.
func (h *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req authDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	clientID := strings.TrimSpace(configs.GoogleClientID)
	if clientID == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Login Google nonaktif")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{clientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "ID token Google tidak valid")
	}
	claims, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "ID token Google tidak valid")
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	var u userModel.UserModel
	err = h.DB.First(&u, "user_google_id = ? OR user_email = ?", claims.Sub, email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := claims.Sub
		u = userModel.UserModel{
			UserName:     strings.TrimSpace(claims.Name),
			UserEmail:    email,
			UserGoogleID: &sub,
			UserRole:     constants.RoleTeacher,
			UserIsActive: true,
		}
		if u.UserName == "" {
			u.UserName = email
		}
		if err := h.DB.Create(&u).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	default:
		// tautkan google_id kalau user lama login pakai email yang sama
		if u.UserGoogleID == nil {
			sub := claims.Sub
			if err := h.DB.Model(&u).Update("user_google_id", sub).Error; err != nil {
				log.Printf("[AUTH] gagal tautkan google_id: %v", err)
			}
		}
	}
	if !u.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	return h.issueTokens(c, &u)
}

// POST /api/auth/refresh-token
func (h *AuthController) RefreshToken(c *fiber.Ctx) error {
	refreshCookie := strings.TrimSpace(c.Cookies("refresh_token"))
	if refreshCookie == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ada")
	}

	userID, err := authService.ParseRefreshToken(h.DB, refreshCookie)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	var u userModel.UserModel
	if err := h.DB.First(&u, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}
	if !u.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	// ROTATE: hapus token lama
	if err := authService.DeleteRefreshToken(h.DB, refreshCookie); err != nil {
		log.Printf("[AUTH] delete old refresh failed: %v", err)
	}

	return h.issueTokens(c, &u)
}

// POST /api/auth/logout
func (h *AuthController) Logout(c *fiber.Ctx) error {
	if refreshCookie := strings.TrimSpace(c.Cookies("refresh_token")); refreshCookie != "" {
		if err := authService.DeleteRefreshToken(h.DB, refreshCookie); err != nil {
			log.Printf("[AUTH] logout delete refresh failed: %v", err)
		}
	}
	c.ClearCookie("refresh_token")
	return helper.JsonOK(c, "logged out", nil)
}
