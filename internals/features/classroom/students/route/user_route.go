package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentController "kelasku_backend/internals/features/classroom/students/controller"
)

func StudentUserRoutes(app fiber.Router, db *gorm.DB) {
	v := validator.New()
	ctrl := studentController.New(db, v)

	g := app.Group("/students")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.GetByID)
	g.Put("/:id", ctrl.Update)
	g.Patch("/:id", ctrl.Patch)
	g.Post("/:id/archive", ctrl.SetArchived(true))
	g.Post("/:id/unarchive", ctrl.SetArchived(false))
	g.Post("/:id/avatar", ctrl.UploadAvatar)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/restore", ctrl.Restore)
}
