package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	callService "kelasku_backend/internals/features/classroom/calls/service"
	model "kelasku_backend/internals/features/classroom/pk/model"
	studentModel "kelasku_backend/internals/features/classroom/students/model"
)

var (
	ErrSessionNotFound   = errors.New("pk session not found")
	ErrSessionNotOngoing = errors.New("pk session is not ongoing")
	ErrSameStudent       = errors.New("pk needs two different students")
	ErrNotParticipant    = errors.New("student is not a participant of this session")
)

/* =========================================================
   Store interface (DI, sama pola dengan calls)
   ========================================================= */

type PKStore interface {
	// Sesi + DUA peserta ditulis dalam SATU transaksi (all-or-nothing).
	CreateSessionWithParticipants(ctx context.Context, sess *model.PKSessionModel, parts []model.PKParticipantModel) error
	GetSession(ctx context.Context, ownerID, sessionID uuid.UUID) (*model.PKSessionModel, error)
	// Status ongoing → finished + tandai pemenang + award poin, satu transaksi.
	FinishSession(ctx context.Context, sess *model.PKSessionModel, winnerStudentID uuid.UUID) error
	// Status ongoing → cancelled, tanpa poin.
	CancelSession(ctx context.Context, sess *model.PKSessionModel) error
}

type PKService struct {
	Store     PKStore
	Selection *callService.SelectionService
}

func NewPKService(store PKStore, selection *callService.SelectionService) *PKService {
	return &PKService{Store: store, Selection: selection}
}

type PairResult struct {
	Session  *model.PKSessionModel
	Students [2]studentModel.StudentModel
}

/* =========================================================
   Pairing
   ========================================================= */

// RandomPair: pasangan acak dari seluruh siswa aktif (tanpa exclusion window),
// lalu sesi ongoing + dua peserta dibuat sekaligus.
func (s *PKService) RandomPair(ctx context.Context, ownerID uuid.UUID, rewardPoints int, topic datatypes.JSON) (*PairResult, error) {
	if rewardPoints < 0 {
		return nil, fmt.Errorf("%w: reward_points negatif", callService.ErrInvalidArgument)
	}

	pair, err := s.Selection.RandomPair(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.createSession(ctx, ownerID, model.PKModeRandom, rewardPoints, topic, pair)
}

// ManualPair: guru memilih dua siswa sendiri; keduanya diverifikasi aktif
// dan milik owner sebelum ada write.
func (s *PKService) ManualPair(ctx context.Context, ownerID, studentAID, studentBID uuid.UUID, rewardPoints int, topic datatypes.JSON) (*PairResult, error) {
	if rewardPoints < 0 {
		return nil, fmt.Errorf("%w: reward_points negatif", callService.ErrInvalidArgument)
	}
	if studentAID == uuid.Nil || studentBID == uuid.Nil {
		return nil, fmt.Errorf("%w: id siswa kosong", callService.ErrInvalidArgument)
	}
	if studentAID == studentBID {
		return nil, ErrSameStudent
	}

	a, err := s.Selection.Students.GetActiveByID(ctx, ownerID, studentAID)
	if err != nil {
		return nil, err
	}
	b, err := s.Selection.Students.GetActiveByID(ctx, ownerID, studentBID)
	if err != nil {
		return nil, err
	}
	return s.createSession(ctx, ownerID, model.PKModeManual, rewardPoints, topic, [2]studentModel.StudentModel{*a, *b})
}

func (s *PKService) createSession(ctx context.Context, ownerID uuid.UUID, mode string, rewardPoints int, topic datatypes.JSON, pair [2]studentModel.StudentModel) (*PairResult, error) {
	sess := &model.PKSessionModel{
		PKSessionOwnerUserID:  ownerID,
		PKSessionMode:         mode,
		PKSessionStatus:       model.PKStatusOngoing,
		PKSessionRewardPoints: rewardPoints,
		PKSessionTopic:        topic,
	}
	aID, bID := pair[0].StudentID, pair[1].StudentID
	parts := []model.PKParticipantModel{
		{PKParticipantStudentID: &aID},
		{PKParticipantStudentID: &bID},
	}
	if err := s.Store.CreateSessionWithParticipants(ctx, sess, parts); err != nil {
		return nil, err
	}
	return &PairResult{Session: sess, Students: pair}, nil
}

/* =========================================================
   State machine: ongoing → finished | cancelled
   ========================================================= */

func (s *PKService) DeclareWinner(ctx context.Context, ownerID, sessionID, winnerStudentID uuid.UUID) (*model.PKSessionModel, error) {
	sess, err := s.loadOngoing(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, p := range sess.Participants {
		if p.PKParticipantStudentID != nil && *p.PKParticipantStudentID == winnerStudentID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotParticipant
	}

	if err := s.Store.FinishSession(ctx, sess, winnerStudentID); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *PKService) Cancel(ctx context.Context, ownerID, sessionID uuid.UUID) (*model.PKSessionModel, error) {
	sess, err := s.loadOngoing(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.Store.CancelSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *PKService) loadOngoing(ctx context.Context, ownerID, sessionID uuid.UUID) (*model.PKSessionModel, error) {
	if ownerID == uuid.Nil || sessionID == uuid.Nil {
		return nil, fmt.Errorf("%w: id kosong", callService.ErrInvalidArgument)
	}
	sess, err := s.Store.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.PKSessionStatus != model.PKStatusOngoing {
		return nil, ErrSessionNotOngoing
	}
	return sess, nil
}
