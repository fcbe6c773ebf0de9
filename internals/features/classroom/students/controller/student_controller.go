package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/classroom/students/dto"
	model "kelasku_backend/internals/features/classroom/students/model"
	helper "kelasku_backend/internals/helpers"
)

/* =========================
   Controller & Constructor
   ========================= */

type StudentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func New(db *gorm.DB, v *validator.Validate) *StudentController {
	return &StudentController{DB: db, Validate: v}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, errors.New(name + " is required")
	}
	u, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errors.New(name + " is invalid uuid")
	}
	return u, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ambil satu siswa milik owner (scoped); dipakai semua handler detail
func (h *StudentController) findOwned(ownerID, id uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	err := h.DB.First(&m, "student_id = ? AND student_owner_user_id = ?", id, ownerID).Error
	return &m, err
}

/* =========================
   Routes Handlers
   ========================= */

// POST /api/u/students
func (h *StudentController) Create(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.StudentCreateReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel(ownerID)
	if err := h.DB.Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "created", dto.FromModel(m))
}

// GET /api/u/students
// Query: page|per_page, search, active, tag, sort_by, sort(order)
func (h *StudentController) List(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	allowedSort := map[string]string{
		"created_at": "student_created_at",
		"updated_at": "student_updated_at",
		"name":       "student_name",
		"number":     "student_number",
		"points":     "student_points",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid sort_by")
	}
	orderClause = strings.TrimPrefix(orderClause, "ORDER BY ")

	q := h.DB.Model(&model.StudentModel{}).
		Where("student_owner_user_id = ?", ownerID)

	if active := strings.TrimSpace(c.Query("active")); active != "" {
		q = q.Where("student_is_active = ?", active == "true")
	}
	if tag := strings.ToLower(strings.TrimSpace(c.Query("tag"))); tag != "" {
		q = q.Where("? = ANY(student_tags)", tag)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(student_name) LIKE ? OR LOWER(COALESCE(student_number, '')) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.StudentModel
	if err := q.Order(orderClause).Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.StudentResp, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, resp, helper.BuildMeta(total, p))
}

// GET /api/u/students/:id
func (h *StudentController) GetByID(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := h.findOwned(ownerID, id)
	if err != nil {
		if isNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// PUT /api/u/students/:id
func (h *StudentController) Update(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := h.findOwned(ownerID, id)
	if err != nil {
		if isNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.StudentUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	req.Apply(m)

	if err := h.DB.Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "updated", dto.FromModel(m))
}

// PATCH /api/u/students/:id
func (h *StudentController) Patch(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := h.findOwned(ownerID, id)
	if err != nil {
		if isNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.StudentPatchReq
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	req.Apply(m)

	if err := h.DB.Save(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "patched", dto.FromModel(m))
}

// POST /api/u/students/:id/archive   → siswa keluar dari undian
// POST /api/u/students/:id/unarchive → kembali aktif
func (h *StudentController) SetArchived(archived bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		id, err := parseUUIDParam(c, "id")
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}

		m, err := h.findOwned(ownerID, id)
		if err != nil {
			if isNotFound(err) {
				return helper.JsonError(c, fiber.StatusNotFound, "not found")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}

		if err := h.DB.Model(m).Update("student_is_active", !archived).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		m.StudentIsActive = !archived
		return helper.JsonUpdated(c, "updated", dto.FromModel(m))
	}
}

// POST /api/u/students/:id/avatar (multipart field "avatar")
func (h *StudentController) UploadAvatar(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := h.findOwned(ownerID, id)
	if err != nil {
		if isNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file avatar wajib diisi")
	}
	url, err := helper.SaveAvatarAsWebP(fh)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.DB.Model(m).Update("student_avatar_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	m.StudentAvatarURL = &url
	return helper.JsonUpdated(c, "avatar updated", dto.FromModel(m))
}

// DELETE /api/u/students/:id  (soft delete)
func (h *StudentController) Delete(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.DB.Delete(&model.StudentModel{},
		"student_id = ? AND student_owner_user_id = ?", id, ownerID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "deleted", fiber.Map{"student_id": id})
}

// POST /api/u/students/:id/restore
func (h *StudentController) Restore(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var m model.StudentModel
	if err := h.DB.Unscoped().
		First(&m, "student_id = ? AND student_owner_user_id = ?", id, ownerID).Error; err != nil {
		if isNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Unscoped().Model(&m).Update("student_deleted_at", nil).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "restored", dto.FromModel(&m))
}
