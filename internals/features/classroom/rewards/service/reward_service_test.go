package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pointService "kelasku_backend/internals/features/classroom/points/service"
	model "kelasku_backend/internals/features/classroom/rewards/model"
)

/* =========================
   Fake store (in-memory)
   ========================= */

type fakeRewardStore struct {
	owner       uuid.UUID
	items       map[uuid.UUID]*model.RewardItemModel
	balances    map[uuid.UUID]int
	redemptions []model.RedemptionModel
	pointLogs   int

	txCalls int
}

func newFakeRewardStore(owner uuid.UUID) *fakeRewardStore {
	return &fakeRewardStore{
		owner:    owner,
		items:    map[uuid.UUID]*model.RewardItemModel{},
		balances: map[uuid.UUID]int{},
	}
}

// InTx meniru semantik transaksi: fn gagal → semua write dibuang.
func (f *fakeRewardStore) InTx(ctx context.Context, fn func(RewardStore) error) error {
	f.txCalls++
	itemSnap := make(map[uuid.UUID]*model.RewardItemModel, len(f.items))
	for k, v := range f.items {
		cp := *v
		itemSnap[k] = &cp
	}
	balSnap := make(map[uuid.UUID]int, len(f.balances))
	for k, v := range f.balances {
		balSnap[k] = v
	}
	nRed, nLogs := len(f.redemptions), f.pointLogs
	if err := fn(f); err != nil {
		f.items = itemSnap
		f.balances = balSnap
		f.redemptions = f.redemptions[:nRed]
		f.pointLogs = nLogs
		return err
	}
	return nil
}

func (f *fakeRewardStore) GetActiveItem(_ context.Context, ownerID, itemID uuid.UUID) (*model.RewardItemModel, error) {
	item, ok := f.items[itemID]
	if !ok || item.RewardItemOwnerUserID != ownerID || !item.RewardItemIsActive {
		return nil, ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeRewardStore) DecrementStockGuarded(_ context.Context, itemID uuid.UUID, qty int) (bool, error) {
	item, ok := f.items[itemID]
	if !ok || item.RewardItemStock < qty {
		return false, nil
	}
	item.RewardItemStock -= qty
	return true, nil
}

func (f *fakeRewardStore) DeductPoints(_ context.Context, _, studentID uuid.UUID, points int, _ string) error {
	bal, ok := f.balances[studentID]
	if !ok {
		return pointService.ErrStudentNotFound
	}
	if bal < points {
		return pointService.ErrInsufficientPoints
	}
	f.balances[studentID] = bal - points
	f.pointLogs++
	return nil
}

func (f *fakeRewardStore) InsertRedemption(_ context.Context, red *model.RedemptionModel) error {
	f.redemptions = append(f.redemptions, *red)
	return nil
}

func (f *fakeRewardStore) seedItem(cost, stock int, active bool) uuid.UUID {
	id := uuid.New()
	f.items[id] = &model.RewardItemModel{
		RewardItemID:          id,
		RewardItemOwnerUserID: f.owner,
		RewardItemName:        "pensil",
		RewardItemCost:        cost,
		RewardItemStock:       stock,
		RewardItemIsActive:    active,
	}
	return id
}

func (f *fakeRewardStore) seedStudent(balance int) uuid.UUID {
	id := uuid.New()
	f.balances[id] = balance
	return id
}

/* =========================
   Redeem
   ========================= */

func TestRedeem_DecrementsStockAndBalanceAtomically(t *testing.T) {
	owner := uuid.New()
	f := newFakeRewardStore(owner)
	itemID := f.seedItem(5, 3, true)
	sid := f.seedStudent(20)

	red, err := NewRewardService(f).Redeem(context.Background(), owner, sid, itemID, 2)
	require.NoError(t, err)
	require.NotNil(t, red)

	assert.Equal(t, 1, f.items[itemID].RewardItemStock)
	assert.Equal(t, 10, f.balances[sid])

	// tepat satu redemption + satu point log
	require.Len(t, f.redemptions, 1)
	assert.Equal(t, 1, f.pointLogs)
	assert.Equal(t, "pensil", red.RedemptionItemName)
	assert.Equal(t, 2, red.RedemptionQty)
	assert.Equal(t, 10, red.RedemptionTotalCost)
}

func TestRedeem_InvalidQtyRejected(t *testing.T) {
	owner := uuid.New()
	f := newFakeRewardStore(owner)
	itemID := f.seedItem(5, 3, true)
	sid := f.seedStudent(20)
	svc := NewRewardService(f)

	for _, qty := range []int{0, -1} {
		_, err := svc.Redeem(context.Background(), owner, sid, itemID, qty)
		assert.ErrorIs(t, err, ErrInvalidQty)
	}
	// ditolak sebelum menyentuh store
	assert.Equal(t, 0, f.txCalls)
}

func TestRedeem_UnknownItem(t *testing.T) {
	owner := uuid.New()
	f := newFakeRewardStore(owner)
	sid := f.seedStudent(20)

	_, err := NewRewardService(f).Redeem(context.Background(), owner, sid, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRedeem_InactiveItemRejected(t *testing.T) {
	owner := uuid.New()
	f := newFakeRewardStore(owner)
	itemID := f.seedItem(5, 3, false)
	sid := f.seedStudent(20)

	_, err := NewRewardService(f).Redeem(context.Background(), owner, sid, itemID, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRedeem_OutOfStockNothingPersisted(t *testing.T) {
	owner := uuid.New()
	f := newFakeRewardStore(owner)
	itemID := f.seedItem(5, 1, true)
	sid := f.seedStudent(20)

	_, err := NewRewardService(f).Redeem(context.Background(), owner, sid, itemID, 2)
	assert.ErrorIs(t, err, ErrOutOfStock)

	assert.Equal(t, 1, f.items[itemID].RewardItemStock)
	assert.Equal(t, 20, f.balances[sid])
	assert.Empty(t, f.redemptions)
	assert.Equal(t, 0, f.pointLogs)
}

func TestRedeem_InsufficientPointsRollsBackStock(t *testing.T) {
	owner := uuid.New()
	f := newFakeRewardStore(owner)
	itemID := f.seedItem(10, 5, true)
	sid := f.seedStudent(3) // saldo < total

	_, err := NewRewardService(f).Redeem(context.Background(), owner, sid, itemID, 1)
	assert.ErrorIs(t, err, pointService.ErrInsufficientPoints)

	// guard saldo gagal → pengurangan stok ikut di-rollback
	assert.Equal(t, 5, f.items[itemID].RewardItemStock)
	assert.Equal(t, 3, f.balances[sid])
	assert.Empty(t, f.redemptions)
	assert.Equal(t, 0, f.pointLogs)
}

func TestRedeem_UnknownStudentNothingPersisted(t *testing.T) {
	owner := uuid.New()
	f := newFakeRewardStore(owner)
	itemID := f.seedItem(5, 3, true)

	_, err := NewRewardService(f).Redeem(context.Background(), owner, uuid.New(), itemID, 1)
	assert.ErrorIs(t, err, pointService.ErrStudentNotFound)

	assert.Equal(t, 3, f.items[itemID].RewardItemStock)
	assert.Empty(t, f.redemptions)
	assert.Equal(t, 0, f.pointLogs)
}
