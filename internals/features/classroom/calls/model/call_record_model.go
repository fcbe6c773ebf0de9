package model

import (
	"time"

	"github.com/google/uuid"
)

// CallRecordModel: fakta immutable "pada waktu T, owner O memanggil siswa S".
// Tidak pernah di-update/hapus; jadi audit trail sekaligus input exclusion window.
type CallRecordModel struct {
	CallRecordID          uuid.UUID  `gorm:"column:call_record_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"call_record_id"`
	CallRecordOwnerUserID uuid.UUID  `gorm:"column:call_record_owner_user_id;type:uuid;not null;index" json:"call_record_owner_user_id"`
	// nullable: SET NULL kalau siswa dihapus dari roster
	CallRecordStudentID *uuid.UUID `gorm:"column:call_record_student_id;type:uuid;index" json:"call_record_student_id,omitempty"`
	CallRecordMode      string     `gorm:"column:call_record_mode;type:varchar(10);not null" json:"call_record_mode"` // CHECK ('random','manual','group')
	CallRecordCreatedAt time.Time  `gorm:"column:call_record_created_at;autoCreateTime;index" json:"call_record_created_at"`
}

func (CallRecordModel) TableName() string { return "call_records" }

// Mode panggilan (closed set)
const (
	CallModeRandom = "random"
	CallModeManual = "manual"
	CallModeGroup  = "group"
)
