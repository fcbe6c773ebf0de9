package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentPointLogModel: jurnal poin append-only (tidak pernah di-update/hapus).
type StudentPointLogModel struct {
	StudentPointLogID          uuid.UUID  `gorm:"column:student_point_log_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"student_point_log_id"`
	StudentPointLogOwnerUserID uuid.UUID  `gorm:"column:student_point_log_owner_user_id;type:uuid;not null;index" json:"student_point_log_owner_user_id"`
	StudentPointLogStudentID   *uuid.UUID `gorm:"column:student_point_log_student_id;type:uuid;index" json:"student_point_log_student_id,omitempty"`
	StudentPointLogDelta       int        `gorm:"column:student_point_log_delta;not null" json:"student_point_log_delta"` // +award / -deduct
	StudentPointLogType        string     `gorm:"column:student_point_log_type;type:varchar(10);not null" json:"student_point_log_type"`
	StudentPointLogReason      *string    `gorm:"column:student_point_log_reason;type:text" json:"student_point_log_reason,omitempty"`
	StudentPointLogCreatedAt   time.Time  `gorm:"column:student_point_log_created_at;autoCreateTime;index" json:"student_point_log_created_at"`
}

func (StudentPointLogModel) TableName() string { return "student_point_logs" }

// Tipe log (sesuai CHECK constraint di SQL)
const (
	PointLogTypeAward  = "award"
	PointLogTypeDeduct = "deduct"
	PointLogTypeReset  = "reset"
	PointLogTypeRedeem = "redeem"
	PointLogTypePK     = "pk"
)
