package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/classroom/points/model"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidPoints      = errors.New("points must be positive")
)

/* =========================================================
   Store interface (DI, sama pola dengan calls)
   ========================================================= */

type PointStore interface {
	// Semua op di dalam fn berjalan pada transaksi yang sama;
	// fn gagal → seluruh write di-rollback.
	InTx(ctx context.Context, fn func(PointStore) error) error
	// student_points += points; false kalau siswa tidak ditemukan.
	AddBalance(ctx context.Context, ownerID, studentID uuid.UUID, points int) (bool, error)
	// student_points -= points dengan guard saldo >= points; false kalau
	// guard gagal ATAU siswa tidak ada (bedakan via StudentExists).
	DeductBalanceGuarded(ctx context.Context, ownerID, studentID uuid.UUID, points int) (bool, error)
	StudentExists(ctx context.Context, ownerID, studentID uuid.UUID) (bool, error)
	GetBalance(ctx context.Context, ownerID, studentID uuid.UUID) (int, error)
	SetBalance(ctx context.Context, ownerID, studentID uuid.UUID, balance int) error
	InsertLog(ctx context.Context, rec *model.StudentPointLogModel) error
}

type PointService struct {
	Store PointStore
}

func NewPointService(store PointStore) *PointService {
	return &PointService{Store: store}
}

// Award: tambah saldo + tulis log, satu transaksi.
func (s *PointService) Award(ctx context.Context, ownerID, studentID uuid.UUID, points int, logType string, reason *string) error {
	if points <= 0 {
		return ErrInvalidPoints
	}
	return s.Store.InTx(ctx, func(st PointStore) error {
		ok, err := st.AddBalance(ctx, ownerID, studentID, points)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStudentNotFound
		}
		sid := studentID
		return st.InsertLog(ctx, &model.StudentPointLogModel{
			StudentPointLogOwnerUserID: ownerID,
			StudentPointLogStudentID:   &sid,
			StudentPointLogDelta:       points,
			StudentPointLogType:        logType,
			StudentPointLogReason:      reason,
		})
	})
}

// Deduct: kurangi saldo dengan guard saldo >= points (tidak boleh negatif).
func (s *PointService) Deduct(ctx context.Context, ownerID, studentID uuid.UUID, points int, logType string, reason *string) error {
	if points <= 0 {
		return ErrInvalidPoints
	}
	return s.Store.InTx(ctx, func(st PointStore) error {
		ok, err := st.DeductBalanceGuarded(ctx, ownerID, studentID, points)
		if err != nil {
			return err
		}
		if !ok {
			// bedakan: siswa tidak ada vs saldo kurang
			exists, err := st.StudentExists(ctx, ownerID, studentID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrStudentNotFound
			}
			return ErrInsufficientPoints
		}
		sid := studentID
		return st.InsertLog(ctx, &model.StudentPointLogModel{
			StudentPointLogOwnerUserID: ownerID,
			StudentPointLogStudentID:   &sid,
			StudentPointLogDelta:       -points,
			StudentPointLogType:        logType,
			StudentPointLogReason:      reason,
		})
	})
}

// Reset: saldo kembali 0 + satu log reset dengan delta negatif saldo lama.
func (s *PointService) Reset(ctx context.Context, ownerID, studentID uuid.UUID, reason *string) error {
	return s.Store.InTx(ctx, func(st PointStore) error {
		bal, err := st.GetBalance(ctx, ownerID, studentID)
		if err != nil {
			return err
		}
		if bal == 0 {
			return nil // tidak ada yang direset, tidak perlu log
		}
		if err := st.SetBalance(ctx, ownerID, studentID, 0); err != nil {
			return err
		}
		sid := studentID
		if err := st.InsertLog(ctx, &model.StudentPointLogModel{
			StudentPointLogOwnerUserID: ownerID,
			StudentPointLogStudentID:   &sid,
			StudentPointLogDelta:       -bal,
			StudentPointLogType:        model.PointLogTypeReset,
			StudentPointLogReason:      reason,
		}); err != nil {
			return err
		}
		log.Printf("[POINTS] reset student=%s delta=%d", studentID, -bal)
		return nil
	})
}
