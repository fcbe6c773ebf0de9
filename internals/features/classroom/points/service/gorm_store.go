package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "kelasku_backend/internals/features/classroom/points/model"
	studentModel "kelasku_backend/internals/features/classroom/students/model"
)

type GormPointStore struct {
	DB *gorm.DB
}

func (s *GormPointStore) InTx(ctx context.Context, fn func(PointStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormPointStore{DB: tx})
	})
}

func (s *GormPointStore) AddBalance(ctx context.Context, ownerID, studentID uuid.UUID, points int) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Where("student_id = ? AND student_owner_user_id = ?", studentID, ownerID).
		Update("student_points", gorm.Expr("student_points + ?", points))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormPointStore) DeductBalanceGuarded(ctx context.Context, ownerID, studentID uuid.UUID, points int) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Where("student_id = ? AND student_owner_user_id = ? AND student_points >= ?", studentID, ownerID, points).
		Update("student_points", gorm.Expr("student_points - ?", points))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormPointStore) StudentExists(ctx context.Context, ownerID, studentID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Where("student_id = ? AND student_owner_user_id = ?", studentID, ownerID).
		Count(&n).Error
	return n > 0, err
}

func (s *GormPointStore) GetBalance(ctx context.Context, ownerID, studentID uuid.UUID) (int, error) {
	var st studentModel.StudentModel
	err := s.DB.WithContext(ctx).
		First(&st, "student_id = ? AND student_owner_user_id = ?", studentID, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrStudentNotFound
	}
	if err != nil {
		return 0, err
	}
	return st.StudentPoints, nil
}

func (s *GormPointStore) SetBalance(ctx context.Context, ownerID, studentID uuid.UUID, balance int) error {
	return s.DB.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Where("student_id = ? AND student_owner_user_id = ?", studentID, ownerID).
		Update("student_points", balance).Error
}

func (s *GormPointStore) InsertLog(ctx context.Context, rec *model.StudentPointLogModel) error {
	return s.DB.WithContext(ctx).Create(rec).Error
}

/* =========================================================
   Wrapper untuk pemanggil yang sudah memegang *gorm.DB / tx
   (controller poin, FinishSession PK, Redeem rewards)
   ========================================================= */

func AwardPoints(ctx context.Context, db *gorm.DB, ownerID, studentID uuid.UUID, points int, logType string, reason *string) error {
	return NewPointService(&GormPointStore{DB: db}).Award(ctx, ownerID, studentID, points, logType, reason)
}

func DeductPoints(ctx context.Context, db *gorm.DB, ownerID, studentID uuid.UUID, points int, logType string, reason *string) error {
	return NewPointService(&GormPointStore{DB: db}).Deduct(ctx, ownerID, studentID, points, logType, reason)
}

func ResetPoints(ctx context.Context, db *gorm.DB, ownerID, studentID uuid.UUID, reason *string) error {
	return NewPointService(&GormPointStore{DB: db}).Reset(ctx, ownerID, studentID, reason)
}
