package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	callController "kelasku_backend/internals/features/classroom/calls/controller"
)

func CallUserRoutes(app fiber.Router, db *gorm.DB) {
	v := validator.New()
	ctrl := callController.New(db, v)

	g := app.Group("/calls")
	g.Post("/random", ctrl.RandomCall)
	g.Post("/manual", ctrl.ManualCall)
	g.Get("/", ctrl.ListHistory)
}
