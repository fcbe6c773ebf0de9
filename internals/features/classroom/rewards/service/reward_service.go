package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	model "kelasku_backend/internals/features/classroom/rewards/model"
)

var (
	ErrItemNotFound = errors.New("reward item not found")
	ErrOutOfStock   = errors.New("reward item out of stock")
	ErrInvalidQty   = errors.New("qty must be positive")
)

/* =========================================================
   Store interface (DI, sama pola dengan calls & points)
   ========================================================= */

type RewardStore interface {
	// Semua op di dalam fn berjalan pada transaksi yang sama;
	// fn gagal → seluruh write di-rollback.
	InTx(ctx context.Context, fn func(RewardStore) error) error
	GetActiveItem(ctx context.Context, ownerID, itemID uuid.UUID) (*model.RewardItemModel, error)
	// reward_item_stock -= qty dengan guard stock >= qty; false kalau guard gagal.
	DecrementStockGuarded(ctx context.Context, itemID uuid.UUID, qty int) (bool, error)
	// saldo siswa -= points + satu point log type=redeem, pada tx yang sama.
	DeductPoints(ctx context.Context, ownerID, studentID uuid.UUID, points int, reason string) error
	InsertRedemption(ctx context.Context, red *model.RedemptionModel) error
}

type RewardService struct {
	Store RewardStore
}

func NewRewardService(store RewardStore) *RewardService {
	return &RewardService{Store: store}
}

// Redeem: tukar poin → barang, SATU transaksi:
//  1. stok dikurangi dengan guard stock >= qty (conditional update)
//  2. saldo siswa dikurangi dengan guard saldo >= total (via DeductPoints,
//     sekalian tulis point log type=redeem)
//  3. baris redemption append-only
//
// Guard mana pun gagal → rollback semuanya, tidak ada write yang tersisa.
func (s *RewardService) Redeem(ctx context.Context, ownerID, studentID, itemID uuid.UUID, qty int) (*model.RedemptionModel, error) {
	if qty <= 0 {
		return nil, ErrInvalidQty
	}

	var red model.RedemptionModel
	err := s.Store.InTx(ctx, func(st RewardStore) error {
		item, err := st.GetActiveItem(ctx, ownerID, itemID)
		if err != nil {
			return err
		}

		ok, err := st.DecrementStockGuarded(ctx, itemID, qty)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOutOfStock
		}

		total := item.RewardItemCost * qty
		if err := st.DeductPoints(ctx, ownerID, studentID, total, "tukar "+item.RewardItemName); err != nil {
			return err
		}

		sid, iid := studentID, itemID
		red = model.RedemptionModel{
			RedemptionOwnerUserID: ownerID,
			RedemptionStudentID:   &sid,
			RedemptionItemID:      &iid,
			RedemptionItemName:    item.RewardItemName,
			RedemptionQty:         qty,
			RedemptionTotalCost:   total,
		}
		return st.InsertRedemption(ctx, &red)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[REWARDS] redeem student=%s item=%s qty=%d total=%d", studentID, itemID, qty, red.RedemptionTotalCost)
	return &red, nil
}
