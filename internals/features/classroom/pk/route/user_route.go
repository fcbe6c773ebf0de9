package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	pkController "kelasku_backend/internals/features/classroom/pk/controller"
)

func PKUserRoutes(app fiber.Router, db *gorm.DB) {
	v := validator.New()
	ctrl := pkController.New(db, v)

	g := app.Group("/pk")
	g.Post("/random", ctrl.RandomPair)
	g.Post("/manual", ctrl.ManualPair)
	g.Post("/:id/winner", ctrl.DeclareWinner)
	g.Post("/:id/cancel", ctrl.Cancel)
	g.Get("/", ctrl.List)
}
