package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	model "kelasku_backend/internals/features/classroom/students/model"
)

/* =========================================================
   GENERIC: PatchField[T]
   ========================================================= */

type PatchField[T any] struct {
	Set   bool `json:"set"`
	Value T    `json:"value,omitempty"`
}

func (p *PatchField[T]) IsZero() bool {
	return p == nil || !p.Set
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

/* =========================================================
   REQUEST: CREATE
   ========================================================= */

type StudentCreateReq struct {
	StudentName   string   `json:"student_name"`
	StudentNumber *string  `json:"student_number,omitempty"`
	StudentTags   []string `json:"student_tags,omitempty"`
}

func (r *StudentCreateReq) Normalize() {
	r.StudentName = strings.TrimSpace(r.StudentName)
	if r.StudentNumber != nil {
		n := strings.TrimSpace(*r.StudentNumber)
		if n == "" {
			r.StudentNumber = nil
		} else {
			r.StudentNumber = &n
		}
	}
	r.StudentTags = normalizeTags(r.StudentTags)
}

func (r *StudentCreateReq) Validate() error {
	if r.StudentName == "" {
		return errors.New("student_name is required")
	}
	if len(r.StudentName) > 100 {
		return errors.New("student_name too long")
	}
	return nil
}

func (r *StudentCreateReq) ToModel(ownerID uuid.UUID) *model.StudentModel {
	return &model.StudentModel{
		StudentOwnerUserID: ownerID,
		StudentName:        r.StudentName,
		StudentNumber:      r.StudentNumber,
		StudentIsActive:    true,
		StudentTags:        pq.StringArray(r.StudentTags),
	}
}

/* =========================================================
   REQUEST: UPDATE (PUT, full)
   ========================================================= */

type StudentUpdateReq struct {
	StudentName   string   `json:"student_name"`
	StudentNumber *string  `json:"student_number,omitempty"`
	StudentTags   []string `json:"student_tags,omitempty"`
}

func (r *StudentUpdateReq) Normalize() {
	r.StudentName = strings.TrimSpace(r.StudentName)
	if r.StudentNumber != nil {
		n := strings.TrimSpace(*r.StudentNumber)
		if n == "" {
			r.StudentNumber = nil
		} else {
			r.StudentNumber = &n
		}
	}
	r.StudentTags = normalizeTags(r.StudentTags)
}

func (r *StudentUpdateReq) Validate() error {
	if r.StudentName == "" {
		return errors.New("student_name is required")
	}
	return nil
}

func (r *StudentUpdateReq) Apply(m *model.StudentModel) {
	m.StudentName = r.StudentName
	m.StudentNumber = r.StudentNumber
	m.StudentTags = pq.StringArray(r.StudentTags)
}

/* =========================================================
   REQUEST: PATCH (partial)
   ========================================================= */

type StudentPatchReq struct {
	StudentName   *PatchField[string]   `json:"student_name,omitempty"`
	StudentNumber *PatchField[*string]  `json:"student_number,omitempty"`
	StudentTags   *PatchField[[]string] `json:"student_tags,omitempty"`
}

func (r *StudentPatchReq) Normalize() {
	if r.StudentName != nil && r.StudentName.Set {
		r.StudentName.Value = strings.TrimSpace(r.StudentName.Value)
	}
	if r.StudentNumber != nil && r.StudentNumber.Set && r.StudentNumber.Value != nil {
		n := strings.TrimSpace(*r.StudentNumber.Value)
		if n == "" {
			r.StudentNumber.Value = nil
		} else {
			r.StudentNumber.Value = &n
		}
	}
	if r.StudentTags != nil && r.StudentTags.Set {
		r.StudentTags.Value = normalizeTags(r.StudentTags.Value)
	}
}

func (r *StudentPatchReq) Validate() error {
	if r.StudentName != nil && r.StudentName.Set && r.StudentName.Value == "" {
		return errors.New("student_name cannot be empty")
	}
	return nil
}

func (r *StudentPatchReq) Apply(m *model.StudentModel) {
	if r.StudentName != nil && r.StudentName.Set {
		m.StudentName = r.StudentName.Value
	}
	if r.StudentNumber != nil && r.StudentNumber.Set {
		m.StudentNumber = r.StudentNumber.Value
	}
	if r.StudentTags != nil && r.StudentTags.Set {
		m.StudentTags = pq.StringArray(r.StudentTags.Value)
	}
}

/* =========================================================
   RESPONSE DTO
   ========================================================= */

type StudentResp struct {
	StudentID        uuid.UUID  `json:"student_id"`
	StudentName      string     `json:"student_name"`
	StudentNumber    *string    `json:"student_number,omitempty"`
	StudentIsActive  bool       `json:"student_is_active"`
	StudentPoints    int        `json:"student_points"`
	StudentTags      []string   `json:"student_tags,omitempty"`
	StudentAvatarURL *string    `json:"student_avatar_url,omitempty"`
	StudentCreatedAt time.Time  `json:"student_created_at"`
	StudentUpdatedAt time.Time  `json:"student_updated_at"`
	StudentDeletedAt *time.Time `json:"student_deleted_at,omitempty"`
}

func FromModel(m *model.StudentModel) StudentResp {
	var delAt *time.Time
	if m.StudentDeletedAt.Valid {
		t := m.StudentDeletedAt.Time
		delAt = &t
	}
	return StudentResp{
		StudentID:        m.StudentID,
		StudentName:      m.StudentName,
		StudentNumber:    m.StudentNumber,
		StudentIsActive:  m.StudentIsActive,
		StudentPoints:    m.StudentPoints,
		StudentTags:      []string(m.StudentTags),
		StudentAvatarURL: m.StudentAvatarURL,
		StudentCreatedAt: m.StudentCreatedAt,
		StudentUpdatedAt: m.StudentUpdatedAt,
		StudentDeletedAt: delAt,
	}
}
