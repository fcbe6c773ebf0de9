package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pointModel "kelasku_backend/internals/features/classroom/points/model"
	pointService "kelasku_backend/internals/features/classroom/points/service"
	model "kelasku_backend/internals/features/classroom/rewards/model"
)

type GormRewardStore struct {
	DB *gorm.DB
}

func (s *GormRewardStore) InTx(ctx context.Context, fn func(RewardStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRewardStore{DB: tx})
	})
}

func (s *GormRewardStore) GetActiveItem(ctx context.Context, ownerID, itemID uuid.UUID) (*model.RewardItemModel, error) {
	var item model.RewardItemModel
	err := s.DB.WithContext(ctx).First(&item,
		"reward_item_id = ? AND reward_item_owner_user_id = ? AND reward_item_is_active = TRUE",
		itemID, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *GormRewardStore) DecrementStockGuarded(ctx context.Context, itemID uuid.UUID, qty int) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&model.RewardItemModel{}).
		Where("reward_item_id = ? AND reward_item_stock >= ?", itemID, qty).
		Update("reward_item_stock", gorm.Expr("reward_item_stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormRewardStore) DeductPoints(ctx context.Context, ownerID, studentID uuid.UUID, points int, reason string) error {
	return pointService.DeductPoints(ctx, s.DB, ownerID, studentID, points,
		pointModel.PointLogTypeRedeem, &reason)
}

func (s *GormRewardStore) InsertRedemption(ctx context.Context, red *model.RedemptionModel) error {
	return s.DB.WithContext(ctx).Create(red).Error
}

// Wrapper untuk pemanggil yang sudah memegang *gorm.DB (controller).
func Redeem(ctx context.Context, db *gorm.DB, ownerID, studentID, itemID uuid.UUID, qty int) (*model.RedemptionModel, error) {
	return NewRewardService(&GormRewardStore{DB: db}).Redeem(ctx, ownerID, studentID, itemID, qty)
}
