package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	callModel "kelasku_backend/internals/features/classroom/calls/model"
	studentModel "kelasku_backend/internals/features/classroom/students/model"
)

/* =========================================================
   GORM-backed stores
   ========================================================= */

type GormStudentStore struct {
	DB *gorm.DB
}

func (s *GormStudentStore) ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]studentModel.StudentModel, error) {
	var rows []studentModel.StudentModel
	err := s.DB.WithContext(ctx).
		Where("student_owner_user_id = ? AND student_is_active = TRUE", ownerID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStudentStore) GetActiveByID(ctx context.Context, ownerID, studentID uuid.UUID) (*studentModel.StudentModel, error) {
	var m studentModel.StudentModel
	err := s.DB.WithContext(ctx).
		First(&m, "student_id = ? AND student_owner_user_id = ? AND student_is_active = TRUE", studentID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &m, nil
}

type GormCallStore struct {
	DB *gorm.DB
}

func (s *GormCallStore) RecentlyCalledIDs(ctx context.Context, ownerID uuid.UUID, after time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).
		Model(&callModel.CallRecordModel{}).
		Distinct("call_record_student_id").
		Where("call_record_owner_user_id = ? AND call_record_created_at > ? AND call_record_student_id IS NOT NULL",
			ownerID, after).
		Pluck("call_record_student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GormCallStore) InsertCallRecord(ctx context.Context, rec *callModel.CallRecordModel) error {
	return s.DB.WithContext(ctx).Create(rec).Error
}
