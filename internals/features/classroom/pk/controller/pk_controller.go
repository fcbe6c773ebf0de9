package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	callService "kelasku_backend/internals/features/classroom/calls/service"
	dto "kelasku_backend/internals/features/classroom/pk/dto"
	model "kelasku_backend/internals/features/classroom/pk/model"
	service "kelasku_backend/internals/features/classroom/pk/service"
	pointService "kelasku_backend/internals/features/classroom/points/service"
	studentDTO "kelasku_backend/internals/features/classroom/students/dto"
	helper "kelasku_backend/internals/helpers"
)

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

type PKController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Service  *service.PKService
}

func New(db *gorm.DB, v *validator.Validate) *PKController {
	sel := callService.NewSelectionService(
		&callService.GormStudentStore{DB: db},
		&callService.GormCallStore{DB: db},
	)
	return &PKController{
		DB:       db,
		Validate: v,
		Service:  service.NewPKService(&service.GormPKStore{DB: db}, sel),
	}
}

// Whitelist kolom sort untuk GET /pk (anti SQL injection lewat sort_by).
var sessionSortColumns = map[string]string{
	"created_at": "pk_session_created_at",
	"status":     "pk_session_status",
	"mode":       "pk_session_mode",
}

func mapPKErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, callService.ErrNoStudentsAvailable):
		return helper.JsonError(c, fiber.StatusNotFound, "Belum ada siswa aktif di kelas ini")
	case errors.Is(err, callService.ErrInsufficientCandidates):
		return helper.JsonError(c, fiber.StatusConflict, "PK butuh minimal dua siswa aktif")
	case errors.Is(err, callService.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan atau sudah diarsipkan")
	case errors.Is(err, callService.ErrInvalidArgument):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSameStudent):
		return helper.JsonError(c, fiber.StatusBadRequest, "Dua siswa harus berbeda")
	case errors.Is(err, service.ErrSessionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Sesi PK tidak ditemukan")
	case errors.Is(err, service.ErrSessionNotOngoing):
		return helper.JsonError(c, fiber.StatusConflict, "Sesi PK sudah selesai atau dibatalkan")
	case errors.Is(err, service.ErrNotParticipant):
		return helper.JsonError(c, fiber.StatusBadRequest, "Pemenang harus salah satu peserta")
	case errors.Is(err, pointService.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

type pairResp struct {
	Session  dto.PKSessionResp       `json:"session"`
	Students []studentDTO.StudentResp `json:"students"`
}

func (h *PKController) respondPair(c *fiber.Ctx, res *service.PairResult) error {
	return helper.JsonCreated(c, "Sesi PK dibuat", pairResp{
		Session: dto.FromModel(res.Session),
		Students: []studentDTO.StudentResp{
			studentDTO.FromModel(&res.Students[0]),
			studentDTO.FromModel(&res.Students[1]),
		},
	})
}

// POST /api/u/pk/random
func (h *PKController) RandomPair(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.PKRandomReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "reward_points tidak boleh negatif")
	}

	res, err := h.Service.RandomPair(c.UserContext(), ownerID, req.RewardPoints, req.Topic)
	if err != nil {
		return mapPKErr(c, err)
	}
	return h.respondPair(c, res)
}

// POST /api/u/pk/manual
func (h *PKController) ManualPair(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.PKManualReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := h.Service.ManualPair(c.UserContext(), ownerID, req.StudentAID, req.StudentBID, req.RewardPoints, req.Topic)
	if err != nil {
		return mapPKErr(c, err)
	}
	return h.respondPair(c, res)
}

// POST /api/u/pk/:id/winner
func (h *PKController) DeclareWinner(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "session id invalid")
	}

	var req dto.PKWinnerReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	sess, err := h.Service.DeclareWinner(c.UserContext(), ownerID, sessionID, req.WinnerStudentID)
	if err != nil {
		return mapPKErr(c, err)
	}
	return helper.JsonUpdated(c, "Pemenang dicatat", dto.FromModel(sess))
}

// POST /api/u/pk/:id/cancel
func (h *PKController) Cancel(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "session id invalid")
	}

	sess, err := h.Service.Cancel(c.UserContext(), ownerID, sessionID)
	if err != nil {
		return mapPKErr(c, err)
	}
	return helper.JsonUpdated(c, "Sesi PK dibatalkan", dto.FromModel(sess))
}

// GET /api/u/pk?status=&mode=&page=&per_page=
func (h *PKController) List(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	orderClause, err := p.SafeOrderClause(sessionSortColumns, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid sort_by")
	}
	orderClause = strings.TrimPrefix(orderClause, "ORDER BY ")

	q := h.DB.Model(&model.PKSessionModel{}).
		Where("pk_session_owner_user_id = ?", ownerID)

	switch st := c.Query("status"); st {
	case "":
	case model.PKStatusOngoing, model.PKStatusFinished, model.PKStatusCancelled:
		q = q.Where("pk_session_status = ?", st)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "status invalid")
	}
	switch mode := c.Query("mode"); mode {
	case "":
	case model.PKModeRandom, model.PKModeManual:
		q = q.Where("pk_session_mode = ?", mode)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "mode invalid")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.PKSessionModel
	if err := q.Preload("Participants").
		Order(orderClause).
		Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.PKSessionResp, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, resp, helper.BuildMeta(total, p))
}
