package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	pointController "kelasku_backend/internals/features/classroom/points/controller"
)

func PointUserRoutes(app fiber.Router, db *gorm.DB) {
	v := validator.New()
	ctrl := pointController.New(db, v)

	g := app.Group("/points")
	g.Post("/award", ctrl.Award)
	g.Post("/deduct", ctrl.Deduct)
	g.Post("/reset", ctrl.Reset)
	g.Get("/logs", ctrl.ListLogs)
}
