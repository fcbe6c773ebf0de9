package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/classroom/points/model"
)

type PointMutationReq struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Points    int       `json:"points" validate:"required,gt=0"`
	Reason    *string   `json:"reason,omitempty"`
}

func (r *PointMutationReq) Normalize() {
	if r.Reason != nil {
		s := strings.TrimSpace(*r.Reason)
		if s == "" {
			r.Reason = nil
		} else {
			r.Reason = &s
		}
	}
}

type PointResetReq struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Reason    *string   `json:"reason,omitempty"`
}

type PointLogResp struct {
	StudentPointLogID        uuid.UUID  `json:"student_point_log_id"`
	StudentPointLogStudentID *uuid.UUID `json:"student_point_log_student_id,omitempty"`
	StudentPointLogDelta     int        `json:"student_point_log_delta"`
	StudentPointLogType      string     `json:"student_point_log_type"`
	StudentPointLogReason    *string    `json:"student_point_log_reason,omitempty"`
	StudentPointLogCreatedAt time.Time  `json:"student_point_log_created_at"`
}

func FromModel(m *model.StudentPointLogModel) PointLogResp {
	return PointLogResp{
		StudentPointLogID:        m.StudentPointLogID,
		StudentPointLogStudentID: m.StudentPointLogStudentID,
		StudentPointLogDelta:     m.StudentPointLogDelta,
		StudentPointLogType:      m.StudentPointLogType,
		StudentPointLogReason:    m.StudentPointLogReason,
		StudentPointLogCreatedAt: m.StudentPointLogCreatedAt,
	}
}
