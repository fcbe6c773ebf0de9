package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type StudentModel struct {
	// PK
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`

	// FK → users (guru pemilik roster); semua query WAJIB discope kolom ini
	StudentOwnerUserID uuid.UUID `gorm:"column:student_owner_user_id;type:uuid;not null;index" json:"student_owner_user_id"`

	StudentName   string  `gorm:"column:student_name;type:varchar(100);not null" json:"student_name"`
	StudentNumber *string `gorm:"column:student_number;type:varchar(50)" json:"student_number,omitempty"`

	// false = diarsipkan (tidak ikut undian)
	StudentIsActive bool `gorm:"column:student_is_active;not null;default:true" json:"student_is_active"`

	// saldo poin; hanya dimutasi oleh modul points/rewards
	StudentPoints int `gorm:"column:student_points;not null;default:0" json:"student_points"`

	StudentTags      pq.StringArray `gorm:"column:student_tags;type:text[]" json:"student_tags,omitempty"`
	StudentAvatarURL *string        `gorm:"column:student_avatar_url;type:text" json:"student_avatar_url,omitempty"`

	// timestamps
	StudentCreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }
