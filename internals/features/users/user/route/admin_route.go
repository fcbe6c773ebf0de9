package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "kelasku_backend/internals/features/users/user/controller"
)

func UserAdminRoutes(app fiber.Router, db *gorm.DB) {
	v := validator.New()
	ctrl := userController.New(db, v)

	g := app.Group("/users")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
