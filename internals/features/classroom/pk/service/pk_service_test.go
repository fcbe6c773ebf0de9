package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	callModel "kelasku_backend/internals/features/classroom/calls/model"
	callService "kelasku_backend/internals/features/classroom/calls/service"
	model "kelasku_backend/internals/features/classroom/pk/model"
	studentModel "kelasku_backend/internals/features/classroom/students/model"
)

/* ================= fakes ================= */

type fakeStudentStore struct {
	students []studentModel.StudentModel
}

func (f *fakeStudentStore) ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]studentModel.StudentModel, error) {
	return f.students, nil
}

func (f *fakeStudentStore) GetActiveByID(ctx context.Context, ownerID, studentID uuid.UUID) (*studentModel.StudentModel, error) {
	for i := range f.students {
		if f.students[i].StudentID == studentID {
			return &f.students[i], nil
		}
	}
	return nil, callService.ErrStudentNotFound
}

type fakeCallStore struct{}

func (f *fakeCallStore) RecentlyCalledIDs(ctx context.Context, ownerID uuid.UUID, after time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeCallStore) InsertCallRecord(ctx context.Context, rec *callModel.CallRecordModel) error {
	return nil
}

type fakePKStore struct {
	sessions map[uuid.UUID]*model.PKSessionModel

	createCalls int
	createErr   error
	finishCalls int
	finishErr   error
	cancelCalls int
}

func newFakePKStore() *fakePKStore {
	return &fakePKStore{sessions: map[uuid.UUID]*model.PKSessionModel{}}
}

func (f *fakePKStore) CreateSessionWithParticipants(ctx context.Context, sess *model.PKSessionModel, parts []model.PKParticipantModel) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	sess.PKSessionID = uuid.New()
	for i := range parts {
		parts[i].PKParticipantID = uuid.New()
		parts[i].PKParticipantSessionID = sess.PKSessionID
	}
	sess.Participants = parts
	f.sessions[sess.PKSessionID] = sess
	return nil
}

func (f *fakePKStore) GetSession(ctx context.Context, ownerID, sessionID uuid.UUID) (*model.PKSessionModel, error) {
	sess, ok := f.sessions[sessionID]
	if !ok || sess.PKSessionOwnerUserID != ownerID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakePKStore) FinishSession(ctx context.Context, sess *model.PKSessionModel, winnerStudentID uuid.UUID) error {
	f.finishCalls++
	if f.finishErr != nil {
		return f.finishErr
	}
	sess.PKSessionStatus = model.PKStatusFinished
	return nil
}

func (f *fakePKStore) CancelSession(ctx context.Context, sess *model.PKSessionModel) error {
	f.cancelCalls++
	sess.PKSessionStatus = model.PKStatusCancelled
	return nil
}

func makeStudents(n int) []studentModel.StudentModel {
	out := make([]studentModel.StudentModel, n)
	for i := range out {
		out[i] = studentModel.StudentModel{StudentID: uuid.New(), StudentIsActive: true}
	}
	return out
}

func newTestPKService(students []studentModel.StudentModel, store *fakePKStore) *PKService {
	sel := callService.NewSelectionService(&fakeStudentStore{students: students}, &fakeCallStore{})
	return NewPKService(store, sel)
}

/* ================= pairing ================= */

func TestRandomPair_CreatesOngoingSessionWithTwoParticipants(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(4), store)

	ownerID := uuid.New()
	res, err := svc.RandomPair(context.Background(), ownerID, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, model.PKModeRandom, res.Session.PKSessionMode)
	assert.Equal(t, model.PKStatusOngoing, res.Session.PKSessionStatus)
	assert.Equal(t, 10, res.Session.PKSessionRewardPoints)
	require.Len(t, res.Session.Participants, 2)
	assert.NotEqual(t, res.Students[0].StudentID, res.Students[1].StudentID)
}

func TestRandomPair_InsufficientCandidates(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(1), store)

	_, err := svc.RandomPair(context.Background(), uuid.New(), 0, nil)
	assert.ErrorIs(t, err, callService.ErrInsufficientCandidates)
	assert.Equal(t, 0, store.createCalls, "gagal memilih pasangan tidak boleh ada write")
}

func TestRandomPair_NegativeReward(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(4), store)

	_, err := svc.RandomPair(context.Background(), uuid.New(), -5, nil)
	assert.ErrorIs(t, err, callService.ErrInvalidArgument)
	assert.Equal(t, 0, store.createCalls)
}

func TestManualPair_SameStudentRejected(t *testing.T) {
	store := newFakePKStore()
	students := makeStudents(3)
	svc := newTestPKService(students, store)

	id := students[0].StudentID
	_, err := svc.ManualPair(context.Background(), uuid.New(), id, id, 0, nil)
	assert.ErrorIs(t, err, ErrSameStudent)
	assert.Equal(t, 0, store.createCalls)
}

func TestManualPair_UnknownStudentRejected(t *testing.T) {
	store := newFakePKStore()
	students := makeStudents(2)
	svc := newTestPKService(students, store)

	_, err := svc.ManualPair(context.Background(), uuid.New(), students[0].StudentID, uuid.New(), 0, nil)
	assert.ErrorIs(t, err, callService.ErrStudentNotFound)
	assert.Equal(t, 0, store.createCalls)
}

func TestManualPair_Success(t *testing.T) {
	store := newFakePKStore()
	students := makeStudents(3)
	svc := newTestPKService(students, store)

	res, err := svc.ManualPair(context.Background(), uuid.New(), students[0].StudentID, students[2].StudentID, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PKModeManual, res.Session.PKSessionMode)
	require.Len(t, res.Session.Participants, 2)
}

func TestCreateFailurePropagates(t *testing.T) {
	store := newFakePKStore()
	store.createErr = assert.AnError
	svc := newTestPKService(makeStudents(4), store)

	_, err := svc.RandomPair(context.Background(), uuid.New(), 0, nil)
	assert.ErrorIs(t, err, assert.AnError)
}

/* ================= state machine ================= */

func createSession(t *testing.T, svc *PKService, ownerID uuid.UUID) *PairResult {
	t.Helper()
	res, err := svc.RandomPair(context.Background(), ownerID, 10, nil)
	require.NoError(t, err)
	return res
}

func TestDeclareWinner_Success(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(4), store)
	ownerID := uuid.New()
	res := createSession(t, svc, ownerID)

	winner := res.Students[0].StudentID
	sess, err := svc.DeclareWinner(context.Background(), ownerID, res.Session.PKSessionID, winner)
	require.NoError(t, err)
	assert.Equal(t, model.PKStatusFinished, sess.PKSessionStatus)
	assert.Equal(t, 1, store.finishCalls)
}

func TestDeclareWinner_NotParticipant(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(4), store)
	ownerID := uuid.New()
	res := createSession(t, svc, ownerID)

	_, err := svc.DeclareWinner(context.Background(), ownerID, res.Session.PKSessionID, uuid.New())
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.Equal(t, 0, store.finishCalls)
}

func TestDeclareWinner_SessionNotFound(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(4), store)

	_, err := svc.DeclareWinner(context.Background(), uuid.New(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeclareWinner_AlreadyFinished(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(4), store)
	ownerID := uuid.New()
	res := createSession(t, svc, ownerID)

	winner := res.Students[0].StudentID
	_, err := svc.DeclareWinner(context.Background(), ownerID, res.Session.PKSessionID, winner)
	require.NoError(t, err)

	_, err = svc.DeclareWinner(context.Background(), ownerID, res.Session.PKSessionID, winner)
	assert.ErrorIs(t, err, ErrSessionNotOngoing)
}

func TestCancel_OnlyOngoing(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(4), store)
	ownerID := uuid.New()
	res := createSession(t, svc, ownerID)

	sess, err := svc.Cancel(context.Background(), ownerID, res.Session.PKSessionID)
	require.NoError(t, err)
	assert.Equal(t, model.PKStatusCancelled, sess.PKSessionStatus)

	_, err = svc.Cancel(context.Background(), ownerID, res.Session.PKSessionID)
	assert.ErrorIs(t, err, ErrSessionNotOngoing)
}

func TestCancel_OwnerScoped(t *testing.T) {
	store := newFakePKStore()
	svc := newTestPKService(makeStudents(4), store)
	res := createSession(t, svc, uuid.New())

	// owner lain tidak boleh melihat sesi ini
	_, err := svc.Cancel(context.Background(), uuid.New(), res.Session.PKSessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
