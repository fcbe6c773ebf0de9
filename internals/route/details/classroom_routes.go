package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	callRoute "kelasku_backend/internals/features/classroom/calls/route"
	pkRoute "kelasku_backend/internals/features/classroom/pk/route"
	pointRoute "kelasku_backend/internals/features/classroom/points/route"
	rewardRoute "kelasku_backend/internals/features/classroom/rewards/route"
	studentRoute "kelasku_backend/internals/features/classroom/students/route"
)

// ClassroomUserRoutes: semua fitur kelas di bawah /api/u (JWT, owner-scoped).
func ClassroomUserRoutes(r fiber.Router, db *gorm.DB) {
	studentRoute.StudentUserRoutes(r, db)
	pointRoute.PointUserRoutes(r, db)
	callRoute.CallUserRoutes(r, db)
	pkRoute.PKUserRoutes(r, db)
	rewardRoute.RewardUserRoutes(r, db)
}
