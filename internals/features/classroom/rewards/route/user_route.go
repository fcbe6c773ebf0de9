package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	rewardController "kelasku_backend/internals/features/classroom/rewards/controller"
)

func RewardUserRoutes(app fiber.Router, db *gorm.DB) {
	v := validator.New()
	ctrl := rewardController.New(db, v)

	g := app.Group("/rewards")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/redemptions", ctrl.ListRedemptions)
	g.Get("/:id", ctrl.GetByID)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/redeem", ctrl.Redeem)
}
