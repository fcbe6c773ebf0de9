package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Mode & status PK (closed set, dijaga di service)
const (
	PKModeRandom = "random"
	PKModeManual = "manual"

	PKStatusOngoing   = "ongoing"
	PKStatusFinished  = "finished"
	PKStatusCancelled = "cancelled"
)

type PKSessionModel struct {
	PKSessionID          uuid.UUID      `gorm:"column:pk_session_id;type:uuid;default:gen_random_uuid();primaryKey" json:"pk_session_id"`
	PKSessionOwnerUserID uuid.UUID      `gorm:"column:pk_session_owner_user_id;type:uuid;not null;index" json:"pk_session_owner_user_id"`
	PKSessionMode        string         `gorm:"column:pk_session_mode;type:varchar(10);not null" json:"pk_session_mode"`
	PKSessionStatus      string         `gorm:"column:pk_session_status;type:varchar(10);not null;default:'ongoing';index" json:"pk_session_status"`
	PKSessionRewardPoints int           `gorm:"column:pk_session_reward_points;not null;default:0" json:"pk_session_reward_points"`
	PKSessionTopic       datatypes.JSON `gorm:"column:pk_session_topic;type:jsonb" json:"pk_session_topic,omitempty"`

	Participants []PKParticipantModel `gorm:"foreignKey:PKParticipantSessionID;references:PKSessionID" json:"participants,omitempty"`

	PKSessionCreatedAt time.Time `gorm:"column:pk_session_created_at;autoCreateTime" json:"pk_session_created_at"`
	PKSessionUpdatedAt time.Time `gorm:"column:pk_session_updated_at;autoUpdateTime" json:"pk_session_updated_at"`
}

func (PKSessionModel) TableName() string { return "pk_sessions" }

// Peserta: student_id nullable (ON DELETE SET NULL) supaya riwayat PK
// tetap hidup walau siswa dihapus dari roster.
type PKParticipantModel struct {
	PKParticipantID        uuid.UUID  `gorm:"column:pk_participant_id;type:uuid;default:gen_random_uuid();primaryKey" json:"pk_participant_id"`
	PKParticipantSessionID uuid.UUID  `gorm:"column:pk_participant_session_id;type:uuid;not null;index" json:"pk_participant_session_id"`
	PKParticipantStudentID *uuid.UUID `gorm:"column:pk_participant_student_id;type:uuid;index" json:"pk_participant_student_id,omitempty"`
	PKParticipantIsWinner  bool       `gorm:"column:pk_participant_is_winner;not null;default:false" json:"pk_participant_is_winner"`

	PKParticipantCreatedAt time.Time `gorm:"column:pk_participant_created_at;autoCreateTime" json:"pk_participant_created_at"`
}

func (PKParticipantModel) TableName() string { return "pk_participants" }
