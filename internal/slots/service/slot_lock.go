package service

import (
	"context"
	"errors"

	slotserrors "github.com/thisisgagangupta/dev-kiosk/internal/slots/errors"
	"github.com/thisisgagangupta/dev-kiosk/internal/slots/repository"
	"github.com/thisisgagangupta/dev-kiosk/pkg/config"
	apperrors "github.com/thisisgagangupta/dev-kiosk/pkg/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

// SlotLockService reserves and releases doctor time-slots. A slot is
// held by at most one appointment; all mutual exclusion is delegated
// to the store's conditional create.
type SlotLockService interface {
	Acquire(ctx context.Context, doctorID, dateISO, timeSlot, patientID, appointmentID string) (model.AcquireOutcome, error)
	Release(ctx context.Context, doctorID, dateISO, timeSlot string) error
}

type slotLockService struct {
	repo repository.SlotLockRepository
	cfg  *config.Config
}

func NewSlotLockService(repo repository.SlotLockRepository, cfg *config.Config) SlotLockService {
	return &slotLockService{
		repo: repo,
		cfg:  cfg,
	}
}

// Acquire reserves the slot for the given appointment. A lock that
// already exists is success (idempotent re-attach); losing the create
// race returns Conflict without an error, because the booking flow
// favors availability over rejecting a rare double-claim. Only store
// outages produce an error.
func (s *slotLockService) Acquire(ctx context.Context, doctorID, dateISO, timeSlot, patientID, appointmentID string) (model.AcquireOutcome, error) {
	if doctorID == "" || dateISO == "" || timeSlot == "" {
		return "", apperrors.InvalidInput("doctorId, dateISO and timeSlot are required")
	}

	lockID := model.SlotLockID(doctorID, dateISO, timeSlot)

	existing, err := s.repo.Find(ctx, lockID)
	if err != nil && !errors.Is(err, slotserrors.ErrLockNotFound) {
		return "", apperrors.Unavailable("failed to read slot lock", err)
	}
	if existing != nil {
		s.cfg.Log.Info("Slot already locked, re-attaching",
			"lock_id", lockID,
			"holder_appointment_id", existing.AppointmentID,
			"appointment_id", appointmentID,
		)
		return model.AlreadyHeld, nil
	}

	lock := &model.SlotLock{
		ID:            lockID,
		ResourceKey:   model.SlotResourceKey(doctorID),
		SlotKey:       model.SlotKey(dateISO, timeSlot),
		PatientID:     patientID,
		AppointmentID: appointmentID,
	}

	if err := s.repo.Create(ctx, lock); err != nil {
		if errors.Is(err, slotserrors.ErrLockExists) {
			s.cfg.Log.Warn("Lost slot lock race",
				"lock_id", lockID,
				"patient_id", patientID,
				"appointment_id", appointmentID,
			)
			return model.Conflict, nil
		}
		return "", apperrors.Unavailable("failed to create slot lock", err)
	}

	s.cfg.Log.Info("Slot locked",
		"lock_id", lockID,
		"patient_id", patientID,
		"appointment_id", appointmentID,
	)
	return model.Acquired, nil
}

// Release deletes the lock for the slot. A missing lock is not an
// error; cancellation may race with itself.
func (s *slotLockService) Release(ctx context.Context, doctorID, dateISO, timeSlot string) error {
	if doctorID == "" || dateISO == "" || timeSlot == "" {
		return apperrors.InvalidInput("doctorId, dateISO and timeSlot are required")
	}

	lockID := model.SlotLockID(doctorID, dateISO, timeSlot)

	if err := s.repo.Delete(ctx, lockID); err != nil {
		return apperrors.Unavailable("failed to release slot lock", err)
	}

	s.cfg.Log.Info("Slot released", "lock_id", lockID)
	return nil
}
