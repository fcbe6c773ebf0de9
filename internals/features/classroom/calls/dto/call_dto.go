package dto

import (
	"time"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/classroom/calls/model"
	studentDTO "kelasku_backend/internals/features/classroom/students/dto"
)

type RandomCallReq struct {
	AvoidWindowHours int `json:"avoid_window_hours" validate:"gte=0"`
}

type ManualCallReq struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

type RandomCallResp struct {
	Student        studentDTO.StudentResp `json:"student"`
	TotalAvailable int                    `json:"total_available"`
	TotalExcluded  int                    `json:"total_excluded"`
	AvoidResetUsed bool                   `json:"avoid_reset_used"`
}

type CallRecordResp struct {
	CallRecordID        uuid.UUID  `json:"call_record_id"`
	CallRecordStudentID *uuid.UUID `json:"call_record_student_id,omitempty"`
	CallRecordMode      string     `json:"call_record_mode"`
	CallRecordCreatedAt time.Time  `json:"call_record_created_at"`
}

func FromModel(m *model.CallRecordModel) CallRecordResp {
	return CallRecordResp{
		CallRecordID:        m.CallRecordID,
		CallRecordStudentID: m.CallRecordStudentID,
		CallRecordMode:      m.CallRecordMode,
		CallRecordCreatedAt: m.CallRecordCreatedAt,
	}
}
