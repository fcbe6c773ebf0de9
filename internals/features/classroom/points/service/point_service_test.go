package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "kelasku_backend/internals/features/classroom/points/model"
)

/* =========================
   Fake store (in-memory)
   ========================= */

type fakePointStore struct {
	owner    uuid.UUID
	balances map[uuid.UUID]int
	logs     []model.StudentPointLogModel

	insertLogErr error
	txCalls      int
}

func newFakePointStore(owner uuid.UUID) *fakePointStore {
	return &fakePointStore{owner: owner, balances: map[uuid.UUID]int{}}
}

func cloneBalances(in map[uuid.UUID]int) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// InTx meniru semantik transaksi: fn gagal → semua write dibuang.
func (f *fakePointStore) InTx(ctx context.Context, fn func(PointStore) error) error {
	f.txCalls++
	balSnap := cloneBalances(f.balances)
	nLogs := len(f.logs)
	if err := fn(f); err != nil {
		f.balances = balSnap
		f.logs = f.logs[:nLogs]
		return err
	}
	return nil
}

func (f *fakePointStore) AddBalance(_ context.Context, ownerID, studentID uuid.UUID, points int) (bool, error) {
	if ownerID != f.owner {
		return false, nil
	}
	if _, ok := f.balances[studentID]; !ok {
		return false, nil
	}
	f.balances[studentID] += points
	return true, nil
}

func (f *fakePointStore) DeductBalanceGuarded(_ context.Context, ownerID, studentID uuid.UUID, points int) (bool, error) {
	if ownerID != f.owner {
		return false, nil
	}
	bal, ok := f.balances[studentID]
	if !ok || bal < points {
		return false, nil
	}
	f.balances[studentID] = bal - points
	return true, nil
}

func (f *fakePointStore) StudentExists(_ context.Context, ownerID, studentID uuid.UUID) (bool, error) {
	if ownerID != f.owner {
		return false, nil
	}
	_, ok := f.balances[studentID]
	return ok, nil
}

func (f *fakePointStore) GetBalance(_ context.Context, ownerID, studentID uuid.UUID) (int, error) {
	if ownerID != f.owner {
		return 0, ErrStudentNotFound
	}
	bal, ok := f.balances[studentID]
	if !ok {
		return 0, ErrStudentNotFound
	}
	return bal, nil
}

func (f *fakePointStore) SetBalance(_ context.Context, _, studentID uuid.UUID, balance int) error {
	f.balances[studentID] = balance
	return nil
}

func (f *fakePointStore) InsertLog(_ context.Context, rec *model.StudentPointLogModel) error {
	if f.insertLogErr != nil {
		return f.insertLogErr
	}
	f.logs = append(f.logs, *rec)
	return nil
}

func (f *fakePointStore) seedStudent(balance int) uuid.UUID {
	id := uuid.New()
	f.balances[id] = balance
	return id
}

/* =========================
   Award
   ========================= */

func TestAward_AddsBalanceAndWritesOneLog(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)
	sid := f.seedStudent(10)

	reason := "aktif di kelas"
	err := NewPointService(f).Award(context.Background(), owner, sid, 5, model.PointLogTypeAward, &reason)
	require.NoError(t, err)

	assert.Equal(t, 15, f.balances[sid])
	require.Len(t, f.logs, 1)
	assert.Equal(t, 5, f.logs[0].StudentPointLogDelta)
	assert.Equal(t, model.PointLogTypeAward, f.logs[0].StudentPointLogType)
	require.NotNil(t, f.logs[0].StudentPointLogStudentID)
	assert.Equal(t, sid, *f.logs[0].StudentPointLogStudentID)
}

func TestAward_NonPositiveRejected(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)
	sid := f.seedStudent(10)
	svc := NewPointService(f)

	for _, pts := range []int{0, -5} {
		err := svc.Award(context.Background(), owner, sid, pts, model.PointLogTypeAward, nil)
		assert.ErrorIs(t, err, ErrInvalidPoints)
	}
	// ditolak sebelum menyentuh store
	assert.Equal(t, 0, f.txCalls)
	assert.Equal(t, 10, f.balances[sid])
}

func TestAward_UnknownStudent(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)

	err := NewPointService(f).Award(context.Background(), owner, uuid.New(), 5, model.PointLogTypeAward, nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.Empty(t, f.logs)
}

/* =========================
   Deduct
   ========================= */

func TestDeduct_SubtractsBalanceAndWritesNegativeLog(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)
	sid := f.seedStudent(10)

	err := NewPointService(f).Deduct(context.Background(), owner, sid, 4, model.PointLogTypeDeduct, nil)
	require.NoError(t, err)

	assert.Equal(t, 6, f.balances[sid])
	require.Len(t, f.logs, 1)
	assert.Equal(t, -4, f.logs[0].StudentPointLogDelta)
	assert.Equal(t, model.PointLogTypeDeduct, f.logs[0].StudentPointLogType)
}

func TestDeduct_BelowBalanceRejected(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)
	sid := f.seedStudent(5)

	err := NewPointService(f).Deduct(context.Background(), owner, sid, 10, model.PointLogTypeDeduct, nil)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// saldo tidak boleh negatif, dan tidak ada baris log yang tertulis
	assert.Equal(t, 5, f.balances[sid])
	assert.Empty(t, f.logs)
}

func TestDeduct_UnknownStudent(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)

	err := NewPointService(f).Deduct(context.Background(), owner, uuid.New(), 3, model.PointLogTypeDeduct, nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.Empty(t, f.logs)
}

func TestDeduct_LogFailureRollsBackBalance(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)
	sid := f.seedStudent(10)
	f.insertLogErr = assert.AnError

	err := NewPointService(f).Deduct(context.Background(), owner, sid, 4, model.PointLogTypeDeduct, nil)
	require.Error(t, err)

	assert.Equal(t, 10, f.balances[sid])
	assert.Empty(t, f.logs)
}

/* =========================
   Reset
   ========================= */

func TestReset_ZeroesBalanceAndLogsOldBalance(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)
	sid := f.seedStudent(7)

	err := NewPointService(f).Reset(context.Background(), owner, sid, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, f.balances[sid])
	require.Len(t, f.logs, 1)
	assert.Equal(t, -7, f.logs[0].StudentPointLogDelta)
	assert.Equal(t, model.PointLogTypeReset, f.logs[0].StudentPointLogType)
}

func TestReset_ZeroBalanceNoLog(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)
	sid := f.seedStudent(0)

	err := NewPointService(f).Reset(context.Background(), owner, sid, nil)
	require.NoError(t, err)
	assert.Empty(t, f.logs)
}

func TestReset_UnknownStudent(t *testing.T) {
	owner := uuid.New()
	f := newFakePointStore(owner)

	err := NewPointService(f).Reset(context.Background(), owner, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
