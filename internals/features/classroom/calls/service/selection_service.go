package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	callModel "kelasku_backend/internals/features/classroom/calls/model"
	studentModel "kelasku_backend/internals/features/classroom/students/model"
)

/* =========================================================
   Errors (typed, dicek dengan errors.Is di controller)
   ========================================================= */

var (
	ErrNoStudentsAvailable    = errors.New("owner has no active students")
	ErrInsufficientCandidates = errors.New("need at least two students")
	ErrStudentNotFound        = errors.New("student not found or inactive")
	ErrInvalidArgument        = errors.New("invalid argument")
)

/* =========================================================
   Store interfaces (DI: service tidak pegang *gorm.DB)
   ========================================================= */

type StudentStore interface {
	// Semua siswa aktif (non-arsip, non-deleted) milik owner.
	ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]studentModel.StudentModel, error)
	// Satu siswa aktif milik owner (untuk manual call / manual PK).
	GetActiveByID(ctx context.Context, ownerID, studentID uuid.UUID) (*studentModel.StudentModel, error)
}

type CallStore interface {
	// ID siswa yang punya call record setelah cutoff (distinct, owner-scoped).
	RecentlyCalledIDs(ctx context.Context, ownerID uuid.UUID, after time.Time) ([]uuid.UUID, error)
	// Tulis satu call record immutable.
	InsertCallRecord(ctx context.Context, rec *callModel.CallRecordModel) error
}

/* =========================================================
   Service
   ========================================================= */

type SelectionService struct {
	Students StudentStore
	Calls    CallStore

	// hooks untuk test; default: waktu nyata + PRNG global
	now  func() time.Time
	intN func(n int) int
}

func NewSelectionService(students StudentStore, calls CallStore) *SelectionService {
	return &SelectionService{
		Students: students,
		Calls:    calls,
		now:      time.Now,
		intN:     rand.Intn,
	}
}

/* =========================================================
   Eligibility Resolver
   ========================================================= */

type EligibleResult struct {
	Eligible      []studentModel.StudentModel
	Base          []studentModel.StudentModel // semua siswa aktif, tanpa exclusion
	ExcludedCount int
	TotalActive   int
}

// ResolveEligible: kandidat = siswa aktif milik owner MINUS yang pernah
// dipanggil dalam avoidWindowHours terakhir. Window 0 = tanpa exclusion.
// Pure read, tanpa side effect.
func (s *SelectionService) ResolveEligible(ctx context.Context, ownerID uuid.UUID, avoidWindowHours int) (*EligibleResult, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner id kosong", ErrInvalidArgument)
	}
	if avoidWindowHours < 0 {
		return nil, fmt.Errorf("%w: avoid_window_hours negatif", ErrInvalidArgument)
	}

	base, err := s.Students.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, ErrNoStudentsAvailable
	}

	res := &EligibleResult{
		Base:        base,
		TotalActive: len(base),
	}

	if avoidWindowHours == 0 {
		res.Eligible = base
		return res, nil
	}

	cutoff := s.now().Add(-time.Duration(avoidWindowHours) * time.Hour)
	calledIDs, err := s.Calls.RecentlyCalledIDs(ctx, ownerID, cutoff)
	if err != nil {
		return nil, err
	}
	called := make(map[uuid.UUID]struct{}, len(calledIDs))
	for _, id := range calledIDs {
		called[id] = struct{}{}
	}

	eligible := make([]studentModel.StudentModel, 0, len(base))
	for _, st := range base {
		if _, ok := called[st.StudentID]; ok {
			res.ExcludedCount++
			continue
		}
		eligible = append(eligible, st)
	}
	res.Eligible = eligible
	return res, nil
}

/* =========================================================
   Fallback Policy
   ========================================================= */

// ApplyFallback: kalau exclusion window bikin kandidat habis, window
// di-drop untuk panggilan ini saja (soft preference, bukan hard constraint).
func ApplyFallback(eligible, base []studentModel.StudentModel) (pool []studentModel.StudentModel, resetOccurred bool) {
	if len(eligible) > 0 {
		return eligible, false
	}
	return base, true
}

/* =========================================================
   Selector (uniform, tanpa bias urutan/poin/riwayat)
   ========================================================= */

// PickOne: undian index uniform, tiap elemen berpeluang 1/len.
// Prasyarat: pool tidak kosong (dijamin ResolveEligible+ApplyFallback).
func (s *SelectionService) PickOne(pool []studentModel.StudentModel) studentModel.StudentModel {
	return pool[s.intN(len(pool))]
}

// PickPair: partial Fisher–Yates (2 draw) → dua siswa berbeda.
// Urutan pasangan tidak bermakna.
func (s *SelectionService) PickPair(pool []studentModel.StudentModel) ([2]studentModel.StudentModel, error) {
	var pair [2]studentModel.StudentModel
	if len(pool) < 2 {
		return pair, ErrInsufficientCandidates
	}
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < 2; i++ {
		j := i + s.intN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	pair[0] = pool[idx[0]]
	pair[1] = pool[idx[1]]
	return pair, nil
}

/* =========================================================
   Orchestration
   ========================================================= */

type RandomCallResult struct {
	Student        studentModel.StudentModel
	TotalAvailable int
	TotalExcluded  int
	AvoidResetUsed bool
}

// RandomCall: resolve → fallback → pick → record.
// Catatan konkurensi: dua request paralel bisa sama-sama membaca pool yang
// sama dan memilih siswa yang sama sebelum salah satu record tertulis;
// race ini diterima (lihat ManualCall utk jalur non-acak).
func (s *SelectionService) RandomCall(ctx context.Context, ownerID uuid.UUID, avoidWindowHours int) (*RandomCallResult, error) {
	res, err := s.ResolveEligible(ctx, ownerID, avoidWindowHours)
	if err != nil {
		return nil, err
	}

	pool, reset := ApplyFallback(res.Eligible, res.Base)
	picked := s.PickOne(pool)

	if err := s.recordCall(ctx, ownerID, picked.StudentID, callModel.CallModeRandom); err != nil {
		return nil, err
	}

	return &RandomCallResult{
		Student:        picked,
		TotalAvailable: res.TotalActive,
		TotalExcluded:  res.ExcludedCount,
		AvoidResetUsed: reset,
	}, nil
}

// ManualCall: guru memilih sendiri; tetap dicatat di history (mode manual)
// supaya ikut dihitung exclusion window.
func (s *SelectionService) ManualCall(ctx context.Context, ownerID, studentID uuid.UUID) (*studentModel.StudentModel, error) {
	if ownerID == uuid.Nil || studentID == uuid.Nil {
		return nil, fmt.Errorf("%w: id kosong", ErrInvalidArgument)
	}
	st, err := s.Students.GetActiveByID(ctx, ownerID, studentID)
	if err != nil {
		return nil, err
	}
	if err := s.recordCall(ctx, ownerID, st.StudentID, callModel.CallModeManual); err != nil {
		return nil, err
	}
	return st, nil
}

// RandomPair: pasangan acak dari SELURUH siswa aktif (PK tidak memakai
// exclusion window). Dipakai modul pk.
func (s *SelectionService) RandomPair(ctx context.Context, ownerID uuid.UUID) ([2]studentModel.StudentModel, error) {
	res, err := s.ResolveEligible(ctx, ownerID, 0)
	if err != nil {
		return [2]studentModel.StudentModel{}, err
	}
	return s.PickPair(res.Base)
}

func (s *SelectionService) recordCall(ctx context.Context, ownerID, studentID uuid.UUID, mode string) error {
	sid := studentID
	return s.Calls.InsertCallRecord(ctx, &callModel.CallRecordModel{
		CallRecordOwnerUserID: ownerID,
		CallRecordStudentID:   &sid,
		CallRecordMode:        mode,
	})
}
