package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "kelasku_backend/internals/features/classroom/pk/model"
	pointModel "kelasku_backend/internals/features/classroom/points/model"
	pointService "kelasku_backend/internals/features/classroom/points/service"
)

type GormPKStore struct {
	DB *gorm.DB
}

func (s *GormPKStore) CreateSessionWithParticipants(ctx context.Context, sess *model.PKSessionModel, parts []model.PKParticipantModel) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sess).Error; err != nil {
			return err
		}
		for i := range parts {
			parts[i].PKParticipantSessionID = sess.PKSessionID
		}
		if err := tx.Create(&parts).Error; err != nil {
			return err
		}
		sess.Participants = parts
		return nil
	})
}

func (s *GormPKStore) GetSession(ctx context.Context, ownerID, sessionID uuid.UUID) (*model.PKSessionModel, error) {
	var sess model.PKSessionModel
	err := s.DB.WithContext(ctx).
		Preload("Participants").
		First(&sess, "pk_session_id = ? AND pk_session_owner_user_id = ?", sessionID, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// FinishSession: guard status di SQL (WHERE status = 'ongoing') supaya dua
// request paralel tidak sama-sama menutup sesi; pemenang + award poin ikut
// transaksi yang sama.
func (s *GormPKStore) FinishSession(ctx context.Context, sess *model.PKSessionModel, winnerStudentID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PKSessionModel{}).
			Where("pk_session_id = ? AND pk_session_status = ?", sess.PKSessionID, model.PKStatusOngoing).
			Update("pk_session_status", model.PKStatusFinished)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionNotOngoing
		}

		if err := tx.Model(&model.PKParticipantModel{}).
			Where("pk_participant_session_id = ? AND pk_participant_student_id = ?", sess.PKSessionID, winnerStudentID).
			Update("pk_participant_is_winner", true).Error; err != nil {
			return err
		}

		if sess.PKSessionRewardPoints > 0 {
			reason := "menang PK"
			if err := pointService.AwardPoints(ctx, tx,
				sess.PKSessionOwnerUserID, winnerStudentID,
				sess.PKSessionRewardPoints, pointModel.PointLogTypePK, &reason); err != nil {
				return err
			}
		}

		sess.PKSessionStatus = model.PKStatusFinished
		for i := range sess.Participants {
			if sess.Participants[i].PKParticipantStudentID != nil &&
				*sess.Participants[i].PKParticipantStudentID == winnerStudentID {
				sess.Participants[i].PKParticipantIsWinner = true
			}
		}
		return nil
	})
}

func (s *GormPKStore) CancelSession(ctx context.Context, sess *model.PKSessionModel) error {
	res := s.DB.WithContext(ctx).Model(&model.PKSessionModel{}).
		Where("pk_session_id = ? AND pk_session_status = ?", sess.PKSessionID, model.PKStatusOngoing).
		Update("pk_session_status", model.PKStatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotOngoing
	}
	sess.PKSessionStatus = model.PKStatusCancelled
	return nil
}
