package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "kelasku_backend/internals/features/classroom/pk/model"
)

/* ================= Requests ================= */

type PKRandomReq struct {
	RewardPoints int            `json:"reward_points" validate:"gte=0"`
	Topic        datatypes.JSON `json:"topic,omitempty"`
}

type PKManualReq struct {
	StudentAID   uuid.UUID      `json:"student_a_id" validate:"required"`
	StudentBID   uuid.UUID      `json:"student_b_id" validate:"required"`
	RewardPoints int            `json:"reward_points" validate:"gte=0"`
	Topic        datatypes.JSON `json:"topic,omitempty"`
}

type PKWinnerReq struct {
	WinnerStudentID uuid.UUID `json:"winner_student_id" validate:"required"`
}

/* ================= Responses ================= */

type PKParticipantResp struct {
	ID        uuid.UUID  `json:"id"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	IsWinner  bool       `json:"is_winner"`
}

type PKSessionResp struct {
	ID           uuid.UUID           `json:"id"`
	Mode         string              `json:"mode"`
	Status       string              `json:"status"`
	RewardPoints int                 `json:"reward_points"`
	Topic        datatypes.JSON      `json:"topic,omitempty"`
	Participants []PKParticipantResp `json:"participants"`
	CreatedAt    time.Time           `json:"created_at"`
}

func FromModel(m *model.PKSessionModel) PKSessionResp {
	parts := make([]PKParticipantResp, 0, len(m.Participants))
	for _, p := range m.Participants {
		parts = append(parts, PKParticipantResp{
			ID:        p.PKParticipantID,
			StudentID: p.PKParticipantStudentID,
			IsWinner:  p.PKParticipantIsWinner,
		})
	}
	return PKSessionResp{
		ID:           m.PKSessionID,
		Mode:         m.PKSessionMode,
		Status:       m.PKSessionStatus,
		RewardPoints: m.PKSessionRewardPoints,
		Topic:        m.PKSessionTopic,
		Participants: parts,
		CreatedAt:    m.PKSessionCreatedAt,
	}
}
