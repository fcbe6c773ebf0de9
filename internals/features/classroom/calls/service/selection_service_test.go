package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	callModel "kelasku_backend/internals/features/classroom/calls/model"
	studentModel "kelasku_backend/internals/features/classroom/students/model"
)

/* ================= fakes ================= */

type fakeStudentStore struct {
	students  []studentModel.StudentModel
	listErr   error
	listCalls int
}

func (f *fakeStudentStore) ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]studentModel.StudentModel, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.students, nil
}

func (f *fakeStudentStore) GetActiveByID(ctx context.Context, ownerID, studentID uuid.UUID) (*studentModel.StudentModel, error) {
	for i := range f.students {
		if f.students[i].StudentID == studentID {
			return &f.students[i], nil
		}
	}
	return nil, ErrStudentNotFound
}

type fakeCallStore struct {
	recent    []uuid.UUID
	recentErr error
	inserted  []callModel.CallRecordModel
	insertErr error
}

func (f *fakeCallStore) RecentlyCalledIDs(ctx context.Context, ownerID uuid.UUID, after time.Time) ([]uuid.UUID, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

func (f *fakeCallStore) InsertCallRecord(ctx context.Context, rec *callModel.CallRecordModel) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *rec)
	return nil
}

func makeStudents(n int) []studentModel.StudentModel {
	out := make([]studentModel.StudentModel, n)
	for i := range out {
		out[i] = studentModel.StudentModel{
			StudentID:       uuid.New(),
			StudentName:     "Siswa",
			StudentIsActive: true,
		}
	}
	return out
}

func newTestService(students *fakeStudentStore, calls *fakeCallStore) *SelectionService {
	s := NewSelectionService(students, calls)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

/* ================= ResolveEligible ================= */

func TestResolveEligible_InvalidArgs(t *testing.T) {
	students := &fakeStudentStore{students: makeStudents(3)}
	s := newTestService(students, &fakeCallStore{})

	_, err := s.ResolveEligible(context.Background(), uuid.Nil, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.ResolveEligible(context.Background(), uuid.New(), -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// validasi sebelum menyentuh store
	assert.Equal(t, 0, students.listCalls)
}

func TestResolveEligible_NoActiveStudents(t *testing.T) {
	s := newTestService(&fakeStudentStore{}, &fakeCallStore{})

	_, err := s.ResolveEligible(context.Background(), uuid.New(), 24)
	assert.ErrorIs(t, err, ErrNoStudentsAvailable)
}

func TestResolveEligible_WindowZeroSkipsHistory(t *testing.T) {
	base := makeStudents(4)
	calls := &fakeCallStore{recent: []uuid.UUID{base[0].StudentID}}
	s := newTestService(&fakeStudentStore{students: base}, calls)

	res, err := s.ResolveEligible(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Len(t, res.Eligible, 4)
	assert.Equal(t, 0, res.ExcludedCount)
	assert.Equal(t, 4, res.TotalActive)
}

func TestResolveEligible_ExcludesRecentlyCalled(t *testing.T) {
	base := makeStudents(5)
	calls := &fakeCallStore{recent: []uuid.UUID{base[0].StudentID, base[2].StudentID}}
	s := newTestService(&fakeStudentStore{students: base}, calls)

	res, err := s.ResolveEligible(context.Background(), uuid.New(), 24)
	require.NoError(t, err)
	assert.Len(t, res.Eligible, 3)
	assert.Equal(t, 2, res.ExcludedCount)
	assert.Equal(t, 5, res.TotalActive)

	for _, st := range res.Eligible {
		assert.NotEqual(t, base[0].StudentID, st.StudentID)
		assert.NotEqual(t, base[2].StudentID, st.StudentID)
	}
}

func TestResolveEligible_StoreError(t *testing.T) {
	boom := assert.AnError
	s := newTestService(&fakeStudentStore{listErr: boom}, &fakeCallStore{})

	_, err := s.ResolveEligible(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, boom)
}

/* ================= ApplyFallback ================= */

func TestApplyFallback(t *testing.T) {
	base := makeStudents(3)

	pool, reset := ApplyFallback(base[:1], base)
	assert.False(t, reset, "eligible non-kosong tidak boleh reset")
	assert.Len(t, pool, 1)

	pool, reset = ApplyFallback(nil, base)
	assert.True(t, reset)
	assert.Len(t, pool, 3)
}

/* ================= Selector ================= */

func TestPickOne_Uniform(t *testing.T) {
	base := makeStudents(5)
	s := NewSelectionService(&fakeStudentStore{students: base}, &fakeCallStore{})

	counts := map[uuid.UUID]int{}
	const trials = 50000
	for i := 0; i < trials; i++ {
		counts[s.PickOne(base).StudentID]++
	}

	expected := trials / len(base)
	for _, st := range base {
		got := counts[st.StudentID]
		assert.InDelta(t, expected, got, float64(expected)*0.1,
			"tiap siswa harus ±10%% dari proporsi uniform")
	}
}

func TestPickPair_Distinct(t *testing.T) {
	base := makeStudents(3)
	s := NewSelectionService(&fakeStudentStore{students: base}, &fakeCallStore{})

	for i := 0; i < 1000; i++ {
		pair, err := s.PickPair(base)
		require.NoError(t, err)
		assert.NotEqual(t, pair[0].StudentID, pair[1].StudentID)
	}
}

func TestPickPair_InsufficientCandidates(t *testing.T) {
	base := makeStudents(1)
	s := NewSelectionService(&fakeStudentStore{students: base}, &fakeCallStore{})

	_, err := s.PickPair(base)
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestPickPair_EveryPairReachable(t *testing.T) {
	base := makeStudents(4)
	s := NewSelectionService(&fakeStudentStore{students: base}, &fakeCallStore{})

	seen := map[[2]uuid.UUID]bool{}
	for i := 0; i < 5000; i++ {
		pair, err := s.PickPair(base)
		require.NoError(t, err)
		a, b := pair[0].StudentID, pair[1].StudentID
		if b.String() < a.String() {
			a, b = b, a
		}
		seen[[2]uuid.UUID{a, b}] = true
	}
	// C(4,2) = 6 pasangan unik
	assert.Len(t, seen, 6)
}

/* ================= RandomCall ================= */

func TestRandomCall_RecordsOneCall(t *testing.T) {
	base := makeStudents(3)
	calls := &fakeCallStore{}
	s := newTestService(&fakeStudentStore{students: base}, calls)

	ownerID := uuid.New()
	res, err := s.RandomCall(context.Background(), ownerID, 0)
	require.NoError(t, err)

	require.Len(t, calls.inserted, 1)
	rec := calls.inserted[0]
	assert.Equal(t, ownerID, rec.CallRecordOwnerUserID)
	require.NotNil(t, rec.CallRecordStudentID)
	assert.Equal(t, res.Student.StudentID, *rec.CallRecordStudentID)
	assert.Equal(t, callModel.CallModeRandom, rec.CallRecordMode)
	assert.False(t, res.AvoidResetUsed)
	assert.Equal(t, 3, res.TotalAvailable)
}

func TestRandomCall_FallbackWhenAllRecentlyCalled(t *testing.T) {
	base := makeStudents(2)
	calls := &fakeCallStore{recent: []uuid.UUID{base[0].StudentID, base[1].StudentID}}
	s := newTestService(&fakeStudentStore{students: base}, calls)

	res, err := s.RandomCall(context.Background(), uuid.New(), 24)
	require.NoError(t, err)
	assert.True(t, res.AvoidResetUsed, "window harus di-drop kalau semua baru dipanggil")
	assert.Equal(t, 2, res.TotalExcluded)
	assert.Len(t, calls.inserted, 1)
}

func TestRandomCall_NoFallbackWhenEligibleRemain(t *testing.T) {
	base := makeStudents(3)
	calls := &fakeCallStore{recent: []uuid.UUID{base[0].StudentID}}
	s := newTestService(&fakeStudentStore{students: base}, calls)

	res, err := s.RandomCall(context.Background(), uuid.New(), 24)
	require.NoError(t, err)
	assert.False(t, res.AvoidResetUsed)
	assert.NotEqual(t, base[0].StudentID, res.Student.StudentID)
}

func TestRandomCall_NoWriteOnFailure(t *testing.T) {
	calls := &fakeCallStore{}

	// owner tanpa siswa
	s := newTestService(&fakeStudentStore{}, calls)
	_, err := s.RandomCall(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrNoStudentsAvailable)
	assert.Empty(t, calls.inserted)

	// argumen invalid
	s = newTestService(&fakeStudentStore{students: makeStudents(2)}, calls)
	_, err = s.RandomCall(context.Background(), uuid.New(), -5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, calls.inserted)

	// history store gagal
	s = newTestService(&fakeStudentStore{students: makeStudents(2)}, &fakeCallStore{recentErr: assert.AnError})
	_, err = s.RandomCall(context.Background(), uuid.New(), 24)
	assert.Error(t, err)
}

func TestRandomCall_InsertFailurePropagates(t *testing.T) {
	calls := &fakeCallStore{insertErr: assert.AnError}
	s := newTestService(&fakeStudentStore{students: makeStudents(2)}, calls)

	_, err := s.RandomCall(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, calls.inserted)
}

func TestRandomCall_DeterministicWithSeededPick(t *testing.T) {
	base := makeStudents(4)
	calls := &fakeCallStore{}
	s := newTestService(&fakeStudentStore{students: base}, calls)
	s.intN = func(n int) int { return 2 } // selalu index 2

	res, err := s.RandomCall(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Equal(t, base[2].StudentID, res.Student.StudentID)
}

/* ================= ManualCall ================= */

func TestManualCall_RecordsManualMode(t *testing.T) {
	base := makeStudents(2)
	calls := &fakeCallStore{}
	s := newTestService(&fakeStudentStore{students: base}, calls)

	st, err := s.ManualCall(context.Background(), uuid.New(), base[1].StudentID)
	require.NoError(t, err)
	assert.Equal(t, base[1].StudentID, st.StudentID)

	require.Len(t, calls.inserted, 1)
	assert.Equal(t, callModel.CallModeManual, calls.inserted[0].CallRecordMode)
}

func TestManualCall_UnknownStudent(t *testing.T) {
	calls := &fakeCallStore{}
	s := newTestService(&fakeStudentStore{students: makeStudents(2)}, calls)

	_, err := s.ManualCall(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.Empty(t, calls.inserted)
}

/* ================= RandomPair ================= */

func TestRandomPair_IgnoresAvoidWindow(t *testing.T) {
	base := makeStudents(2)
	// keduanya baru dipanggil; pasangan PK tetap harus terbentuk
	calls := &fakeCallStore{recent: []uuid.UUID{base[0].StudentID, base[1].StudentID}}
	s := newTestService(&fakeStudentStore{students: base}, calls)

	pair, err := s.RandomPair(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotEqual(t, pair[0].StudentID, pair[1].StudentID)
}

func TestRandomPair_NeedsTwoStudents(t *testing.T) {
	s := newTestService(&fakeStudentStore{students: makeStudents(1)}, &fakeCallStore{})

	_, err := s.RandomPair(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}
