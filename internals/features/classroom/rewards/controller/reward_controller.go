package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pointService "kelasku_backend/internals/features/classroom/points/service"
	dto "kelasku_backend/internals/features/classroom/rewards/dto"
	model "kelasku_backend/internals/features/classroom/rewards/model"
	service "kelasku_backend/internals/features/classroom/rewards/service"
	helper "kelasku_backend/internals/helpers"
)

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

type RewardController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *RewardController {
	return &RewardController{DB: db, Validate: v}
}

func (h *RewardController) findOwned(ownerID, id uuid.UUID) (*model.RewardItemModel, error) {
	var item model.RewardItemModel
	err := h.DB.First(&item,
		"reward_item_id = ? AND reward_item_owner_user_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// POST /api/u/rewards
func (h *RewardController) Create(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.RewardItemCreateReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cost harus > 0 dan stock >= 0")
	}

	item := req.ToModel(ownerID)
	if err := h.DB.WithContext(c.UserContext()).Create(item).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Hadiah ditambahkan", dto.ItemFromModel(item))
}

// GET /api/u/rewards?active=&page=&per_page=
func (h *RewardController) List(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	allowedSort := map[string]string{
		"created_at": "reward_item_created_at",
		"name":       "reward_item_name",
		"cost":       "reward_item_cost",
		"stock":      "reward_item_stock",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid sort_by")
	}
	orderClause = strings.TrimPrefix(orderClause, "ORDER BY ")

	q := h.DB.Model(&model.RewardItemModel{}).
		Where("reward_item_owner_user_id = ?", ownerID)

	if a := c.Query("active"); a != "" {
		q = q.Where("reward_item_is_active = ?", a == "true" || a == "1")
	}
	if s := c.Query("search"); s != "" {
		q = q.Where("reward_item_name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.RewardItemModel
	if err := q.Order(orderClause).
		Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RewardItemResp, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.ItemFromModel(&rows[i]))
	}
	return helper.JsonList(c, resp, helper.BuildMeta(total, p))
}

// GET /api/u/rewards/:id
func (h *RewardController) GetByID(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id invalid")
	}

	item, err := h.findOwned(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Hadiah tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", dto.ItemFromModel(item))
}

// PUT /api/u/rewards/:id
func (h *RewardController) Update(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id invalid")
	}

	var req dto.RewardItemUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cost harus > 0 dan stock >= 0")
	}

	item, err := h.findOwned(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Hadiah tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	req.Apply(item)
	if err := h.DB.WithContext(c.UserContext()).Save(item).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Hadiah diperbarui", dto.ItemFromModel(item))
}

// DELETE /api/u/rewards/:id (soft delete)
func (h *RewardController) Delete(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id invalid")
	}

	res := h.DB.WithContext(c.UserContext()).
		Where("reward_item_id = ? AND reward_item_owner_user_id = ?", id, ownerID).
		Delete(&model.RewardItemModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Hadiah tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Hadiah dihapus", fiber.Map{"id": id})
}

// POST /api/u/rewards/:id/redeem
func (h *RewardController) Redeem(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	itemID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id invalid")
	}

	var req dto.RedeemReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	red, err := service.Redeem(c.UserContext(), h.DB, ownerID, req.StudentID, itemID, req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Hadiah tidak ditemukan")
		case errors.Is(err, service.ErrOutOfStock):
			return helper.JsonError(c, fiber.StatusConflict, "Stok hadiah tidak cukup")
		case errors.Is(err, service.ErrInvalidQty):
			return helper.JsonError(c, fiber.StatusBadRequest, "qty harus > 0")
		case errors.Is(err, pointService.ErrStudentNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
		case errors.Is(err, pointService.ErrInsufficientPoints):
			return helper.JsonError(c, fiber.StatusConflict, "Poin siswa tidak cukup")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonCreated(c, "Penukaran berhasil", dto.RedemptionFromModel(red))
}

// GET /api/u/rewards/redemptions?student_id=&page=&per_page=
func (h *RewardController) ListRedemptions(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	allowedSort := map[string]string{
		"created_at": "redemption_created_at",
		"total_cost": "redemption_total_cost",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid sort_by")
	}
	orderClause = strings.TrimPrefix(orderClause, "ORDER BY ")

	q := h.DB.Model(&model.RedemptionModel{}).
		Where("redemption_owner_user_id = ?", ownerID)

	if s := c.Query("student_id"); s != "" {
		sid, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id invalid")
		}
		q = q.Where("redemption_student_id = ?", sid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.RedemptionModel
	if err := q.Order(orderClause).
		Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RedemptionResp, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.RedemptionFromModel(&rows[i]))
	}
	return helper.JsonList(c, resp, helper.BuildMeta(total, p))
}
