package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/classroom/points/dto"
	model "kelasku_backend/internals/features/classroom/points/model"
	service "kelasku_backend/internals/features/classroom/points/service"
	helper "kelasku_backend/internals/helpers"
)

type PointController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *PointController {
	return &PointController{DB: db, Validate: v}
}

// Whitelist kolom sort untuk GET /logs (anti SQL injection lewat sort_by).
var logSortColumns = map[string]string{
	"created_at": "student_point_log_created_at",
	"delta":      "student_point_log_delta",
	"type":       "student_point_log_type",
}

func mapPointErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
	case errors.Is(err, service.ErrInsufficientPoints):
		return helper.JsonError(c, fiber.StatusConflict, "Poin siswa tidak mencukupi")
	case errors.Is(err, service.ErrInvalidPoints):
		return helper.JsonError(c, fiber.StatusBadRequest, "Jumlah poin harus positif")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

// POST /api/u/points/award
func (h *PointController) Award(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.PointMutationReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := service.AwardPoints(c.UserContext(), h.DB, ownerID, req.StudentID, req.Points,
		model.PointLogTypeAward, req.Reason); err != nil {
		return mapPointErr(c, err)
	}
	return helper.JsonOK(c, "points awarded", fiber.Map{
		"student_id": req.StudentID,
		"points":     req.Points,
	})
}

// POST /api/u/points/deduct
func (h *PointController) Deduct(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.PointMutationReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := service.DeductPoints(c.UserContext(), h.DB, ownerID, req.StudentID, req.Points,
		model.PointLogTypeDeduct, req.Reason); err != nil {
		return mapPointErr(c, err)
	}
	return helper.JsonOK(c, "points deducted", fiber.Map{
		"student_id": req.StudentID,
		"points":     req.Points,
	})
}

// POST /api/u/points/reset
func (h *PointController) Reset(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.PointResetReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := service.ResetPoints(c.UserContext(), h.DB, ownerID, req.StudentID, req.Reason); err != nil {
		return mapPointErr(c, err)
	}
	return helper.JsonOK(c, "points reset", fiber.Map{"student_id": req.StudentID})
}

// GET /api/u/points/logs
// Query: student_id (opsional), page|per_page
func (h *PointController) ListLogs(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	orderClause, err := p.SafeOrderClause(logSortColumns, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid sort_by")
	}
	orderClause = strings.TrimPrefix(orderClause, "ORDER BY ")

	q := h.DB.Model(&model.StudentPointLogModel{}).
		Where("student_point_log_owner_user_id = ?", ownerID)

	if s := c.Query("student_id"); s != "" {
		sid, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id invalid")
		}
		q = q.Where("student_point_log_student_id = ?", sid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.StudentPointLogModel
	if err := q.Order(orderClause).
		Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.PointLogResp, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, resp, helper.BuildMeta(total, p))
}
