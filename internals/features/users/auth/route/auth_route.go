package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "kelasku_backend/internals/features/users/auth/controller"
	middlewares "kelasku_backend/internals/middlewares"
)

func AuthRoutes(app fiber.Router, db *gorm.DB) {
	v := validator.New()
	ctrl := authController.New(db, v)

	g := app.Group("/api/auth")
	g.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	g.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	g.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	g.Post("/refresh-token", ctrl.RefreshToken)
	g.Post("/logout", ctrl.Logout)
}
