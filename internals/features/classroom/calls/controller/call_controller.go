package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/classroom/calls/dto"
	model "kelasku_backend/internals/features/classroom/calls/model"
	service "kelasku_backend/internals/features/classroom/calls/service"
	studentDTO "kelasku_backend/internals/features/classroom/students/dto"
	helper "kelasku_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
   ========================= */

type CallController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Service  *service.SelectionService
}

func New(db *gorm.DB, v *validator.Validate) *CallController {
	return &CallController{
		DB:       db,
		Validate: v,
		Service: service.NewSelectionService(
			&service.GormStudentStore{DB: db},
			&service.GormCallStore{DB: db},
		),
	}
}

// Whitelist kolom sort untuk GET /calls (anti SQL injection lewat sort_by).
var historySortColumns = map[string]string{
	"created_at": "call_record_created_at",
	"mode":       "call_record_mode",
}

func mapSelectionErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoStudentsAvailable):
		return helper.JsonError(c, fiber.StatusNotFound, "Belum ada siswa aktif di kelas ini")
	case errors.Is(err, service.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan atau sudah diarsipkan")
	case errors.Is(err, service.ErrInsufficientCandidates):
		return helper.JsonError(c, fiber.StatusConflict, "Butuh minimal dua siswa aktif")
	case errors.Is(err, service.ErrInvalidArgument):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

/* =========================
   Routes Handlers
   ========================= */

// POST /api/u/calls/random
// Body: { avoid_window_hours } (0 = tanpa exclusion window)
func (h *CallController) RandomCall(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.RandomCallReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "avoid_window_hours tidak boleh negatif")
	}

	res, err := h.Service.RandomCall(c.UserContext(), ownerID, req.AvoidWindowHours)
	if err != nil {
		return mapSelectionErr(c, err)
	}

	return helper.JsonOK(c, "ok", dto.RandomCallResp{
		Student:        studentDTO.FromModel(&res.Student),
		TotalAvailable: res.TotalAvailable,
		TotalExcluded:  res.TotalExcluded,
		AvoidResetUsed: res.AvoidResetUsed,
	})
}

// POST /api/u/calls/manual
// Body: { student_id }
func (h *CallController) ManualCall(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.ManualCallReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	st, err := h.Service.ManualCall(c.UserContext(), ownerID, req.StudentID)
	if err != nil {
		return mapSelectionErr(c, err)
	}
	return helper.JsonOK(c, "ok", studentDTO.FromModel(st))
}

// GET /api/u/calls
// Query: student_id, mode, page|per_page
func (h *CallController) ListHistory(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	orderClause, err := p.SafeOrderClause(historySortColumns, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid sort_by")
	}
	orderClause = strings.TrimPrefix(orderClause, "ORDER BY ")

	q := h.DB.Model(&model.CallRecordModel{}).
		Where("call_record_owner_user_id = ?", ownerID)

	if s := c.Query("student_id"); s != "" {
		sid, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id invalid")
		}
		q = q.Where("call_record_student_id = ?", sid)
	}
	switch mode := c.Query("mode"); mode {
	case "":
	case model.CallModeRandom, model.CallModeManual, model.CallModeGroup:
		q = q.Where("call_record_mode = ?", mode)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "mode invalid")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.CallRecordModel
	if err := q.Order(orderClause).
		Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.CallRecordResp, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, resp, helper.BuildMeta(total, p))
}
