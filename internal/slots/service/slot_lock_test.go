package service

import (
	"context"
	"sync"
	"testing"

	slotserrors "github.com/thisisgagangupta/dev-kiosk/internal/slots/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/config"
	apperrors "github.com/thisisgagangupta/dev-kiosk/pkg/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

// memSlotLockRepository backs the service with a map guarded by a
// mutex, so concurrent Create calls behave like the store's
// conditional create: exactly one writer wins.
type memSlotLockRepository struct {
	mu    sync.Mutex
	locks map[string]*model.SlotLock
}

func newMemSlotLockRepository() *memSlotLockRepository {
	return &memSlotLockRepository{locks: make(map[string]*model.SlotLock)}
}

func (r *memSlotLockRepository) Create(_ context.Context, lock *model.SlotLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.locks[lock.ID]; exists {
		return slotserrors.ErrLockExists
	}
	r.locks[lock.ID] = lock
	return nil
}

func (r *memSlotLockRepository) Find(_ context.Context, lockID string) (*model.SlotLock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lock, ok := r.locks[lockID]; ok {
		return lock, nil
	}
	return nil, slotserrors.ErrLockNotFound
}

func (r *memSlotLockRepository) Delete(_ context.Context, lockID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, lockID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Service: "test"}),
	}
}

func TestAcquire_FirstCallerWins(t *testing.T) {
	svc := NewSlotLockService(newMemSlotLockRepository(), testConfig())
	ctx := context.Background()

	outcome, err := svc.Acquire(ctx, "doc-1", "2025-01-10", "10:30", "patient-1", "appt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != model.Acquired {
		t.Errorf("expected %q, got %q", model.Acquired, outcome)
	}
}

func TestAcquire_SecondCallerGetsAlreadyHeld(t *testing.T) {
	svc := NewSlotLockService(newMemSlotLockRepository(), testConfig())
	ctx := context.Background()

	if _, err := svc.Acquire(ctx, "doc-1", "2025-01-10", "10:30", "patient-1", "appt-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := svc.Acquire(ctx, "doc-1", "2025-01-10", "10:30", "patient-2", "appt-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != model.AlreadyHeld {
		t.Errorf("expected %q, got %q", model.AlreadyHeld, outcome)
	}
}

func TestAcquire_ConcurrentCallersNeverBothAcquire(t *testing.T) {
	repo := newMemSlotLockRepository()
	svc := NewSlotLockService(repo, testConfig())
	ctx := context.Background()

	const callers = 16
	outcomes := make([]model.AcquireOutcome, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Acquire(ctx, "doc-9", "2025-01-10", "09:00", "patient", "appt")
		}(i)
	}
	wg.Wait()

	acquired := 0
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		switch outcomes[i] {
		case model.Acquired:
			acquired++
		case model.AlreadyHeld, model.Conflict:
		default:
			t.Errorf("caller %d: unexpected outcome %q", i, outcomes[i])
		}
	}
	if acquired != 1 {
		t.Errorf("expected exactly one caller to acquire, got %d", acquired)
	}
}

func TestAcquire_DifferentSlotsAreIndependent(t *testing.T) {
	svc := NewSlotLockService(newMemSlotLockRepository(), testConfig())
	ctx := context.Background()

	first, err := svc.Acquire(ctx, "doc-1", "2025-01-10", "10:30", "p1", "a1")
	if err != nil || first != model.Acquired {
		t.Fatalf("expected acquired, got %q err=%v", first, err)
	}

	second, err := svc.Acquire(ctx, "doc-1", "2025-01-10", "11:00", "p2", "a2")
	if err != nil || second != model.Acquired {
		t.Errorf("expected acquired for distinct slot, got %q err=%v", second, err)
	}
}

func TestAcquire_MissingInputs(t *testing.T) {
	svc := NewSlotLockService(newMemSlotLockRepository(), testConfig())

	_, err := svc.Acquire(context.Background(), "", "2025-01-10", "10:30", "p1", "a1")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected %s, got %v", apperrors.CodeInvalidInput, err)
	}
}

func TestRelease_IsIdempotent(t *testing.T) {
	repo := newMemSlotLockRepository()
	svc := NewSlotLockService(repo, testConfig())
	ctx := context.Background()

	if _, err := svc.Acquire(ctx, "doc-1", "2025-01-10", "10:30", "p1", "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Release(ctx, "doc-1", "2025-01-10", "10:30"); err != nil {
		t.Fatalf("first release failed: %v", err)
	}
	if err := svc.Release(ctx, "doc-1", "2025-01-10", "10:30"); err != nil {
		t.Fatalf("second release should be a no-op, got: %v", err)
	}

	outcome, err := svc.Acquire(ctx, "doc-1", "2025-01-10", "10:30", "p2", "a2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != model.Acquired {
		t.Errorf("released slot should be acquirable again, got %q", outcome)
	}
}
