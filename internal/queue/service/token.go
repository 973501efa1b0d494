package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thisisgagangupta/dev-kiosk/internal/notify"
	queueerrors "github.com/thisisgagangupta/dev-kiosk/internal/queue/errors"
	"github.com/thisisgagangupta/dev-kiosk/internal/queue/repository"
	"github.com/thisisgagangupta/dev-kiosk/internal/queue/validator"
	slotsservice "github.com/thisisgagangupta/dev-kiosk/internal/slots/service"
	"github.com/thisisgagangupta/dev-kiosk/pkg/client"
	"github.com/thisisgagangupta/dev-kiosk/pkg/config"
	apperrors "github.com/thisisgagangupta/dev-kiosk/pkg/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

// TokenService owns the token lifecycle: idempotent issuance, status
// queries and staff-driven transitions. All mutual exclusion is
// delegated to the store primitives behind the repositories; the
// service itself is stateless and holds no cross-request locks.
type TokenService interface {
	IssueOrGet(ctx context.Context, patientID, appointmentID string) (*model.Token, *model.QueuePosition, error)
	Status(ctx context.Context, tokenNo string) (*model.QueueStatus, error)
	SetStatus(ctx context.Context, tokenID, status string) (*model.Token, error)
}

type tokenService struct {
	repo         repository.TokenRepository
	seqRepo      repository.SequenceRepository
	lanes        *LaneRouter
	estimator    *Estimator
	validator    *validator.CheckinValidator
	appointments client.AppointmentDirectory
	identity     client.IdentityResolver
	slots        slotsservice.SlotLockService
	notifier     notify.CheckInNotifier
	cfg          *config.Config
}

func NewTokenService(
	repo repository.TokenRepository,
	seqRepo repository.SequenceRepository,
	lanes *LaneRouter,
	estimator *Estimator,
	checkinValidator *validator.CheckinValidator,
	appointments client.AppointmentDirectory,
	identity client.IdentityResolver,
	slots slotsservice.SlotLockService,
	notifier notify.CheckInNotifier,
	cfg *config.Config,
) TokenService {
	return &tokenService{
		repo:         repo,
		seqRepo:      seqRepo,
		lanes:        lanes,
		estimator:    estimator,
		validator:    checkinValidator,
		appointments: appointments,
		identity:     identity,
		slots:        slots,
		notifier:     notifier,
		cfg:          cfg,
	}
}

// IssueOrGet returns the token for an appointment, creating it on
// first call. The lookup-before-create makes retries safe: a repeated
// call with the same appointment returns the already-issued token
// unchanged. Slot locking and the check-in notification are
// best-effort side effects and can never fail the issuance.
func (s *tokenService) IssueOrGet(ctx context.Context, patientID, appointmentID string) (*model.Token, *model.QueuePosition, error) {
	req := &model.IssueTokenRequest{PatientID: patientID, AppointmentID: appointmentID}
	if err := s.validator.ValidateIssueRequest(req); err != nil {
		return nil, nil, apperrors.Validation("Invalid check-in request", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByAppointmentID(ctx, appointmentID)
	if err != nil && !errors.Is(err, queueerrors.ErrTokenNotFound) {
		return nil, nil, apperrors.Unavailable("Failed to look up existing token", err)
	}
	if existing != nil {
		position, err := s.position(ctx, existing)
		if err != nil {
			return nil, nil, err
		}
		s.cfg.Log.Info("Returning existing token",
			"token_no", existing.TokenNo,
			"appointment_id", appointmentID,
		)
		return existing, position, nil
	}

	appt, err := s.appointments.GetAppointment(ctx, patientID, appointmentID)
	if err != nil {
		return nil, nil, err
	}

	date := appt.DateISO
	if date == "" {
		date = s.cfg.Today()
	}
	lane := s.lanes.LaneFor(appt.DoctorID)

	seq, err := s.seqRepo.Next(ctx, date, lane)
	if err != nil {
		return nil, nil, apperrors.Unavailable("Token allocation failed, retry", err)
	}

	ahead, err := s.repo.CountAhead(ctx, date, lane, seq)
	if err != nil {
		return nil, nil, apperrors.Unavailable("Failed to count queue position", err)
	}
	position := s.estimator.Estimate(int(ahead))

	token := &model.Token{
		TokenID:       uuid.NewString(),
		TokenNo:       fmt.Sprintf("%s%d", lane, seq),
		PatientID:     patientID,
		AppointmentID: appointmentID,
		DoctorID:      appt.DoctorID,
		Date:          date,
		Lane:          lane,
		Seq:           seq,
		Status:        model.StatusWaiting,
		EtaLow:        position.EtaLow,
		EtaHigh:       position.EtaHigh,
		TimeSlot:      appt.TimeSlot,
	}
	if err := s.validator.ValidateToken(token); err != nil {
		return nil, nil, apperrors.Internal("Built an invalid token", err)
	}

	if err := s.repo.Create(ctx, token); err != nil {
		return nil, nil, apperrors.Unavailable("Failed to persist token", err)
	}

	s.cfg.Log.Info("Token issued",
		"token_no", token.TokenNo,
		"lane", lane,
		"seq", seq,
		"date", date,
		"patient_id", patientID,
		"appointment_id", appointmentID,
	)

	// Side effects past this point are best-effort only.
	s.lockWalkinSlot(ctx, appt)
	s.dispatchCheckIn(ctx, appt, token)

	return token, &position, nil
}

// Status resolves a token number to its live position and ETA. The
// ahead count is computed fresh on every call.
func (s *tokenService) Status(ctx context.Context, tokenNo string) (*model.QueueStatus, error) {
	if tokenNo == "" {
		return nil, apperrors.InvalidInput("tokenNo is required")
	}

	token, err := s.repo.FindByTokenNo(ctx, tokenNo)
	if err != nil {
		if errors.Is(err, queueerrors.ErrTokenNotFound) {
			return nil, apperrors.NotFoundWithID("Token", tokenNo)
		}
		return nil, apperrors.Unavailable("Failed to look up token", err)
	}

	position, err := s.position(ctx, token)
	if err != nil {
		return nil, err
	}

	return &model.QueueStatus{
		TokenNo:    token.TokenNo,
		Position:   position.Position,
		EtaLow:     position.EtaLow,
		EtaHigh:    position.EtaHigh,
		Confidence: position.Confidence,
		Status:     token.Status,
	}, nil
}

// SetStatus applies a staff-driven transition. Transitions only move
// forward; cancelled is reachable from any non-terminal status.
func (s *tokenService) SetStatus(ctx context.Context, tokenID, status string) (*model.Token, error) {
	if tokenID == "" {
		return nil, apperrors.InvalidInput("token id is required")
	}
	if err := s.validator.ValidateStatusUpdate(&model.TokenStatusUpdate{Status: status}); err != nil {
		return nil, apperrors.Validation("Invalid status", map[string]any{"error": err.Error()})
	}

	token, err := s.repo.FindByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, queueerrors.ErrTokenNotFound) {
			return nil, apperrors.NotFoundWithID("Token", tokenID)
		}
		return nil, apperrors.Unavailable("Failed to look up token", err)
	}

	if !model.CanTransition(token.Status, status) {
		return nil, apperrors.InvalidTransition(token.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, tokenID, status); err != nil {
		if errors.Is(err, queueerrors.ErrTokenNotFound) {
			return nil, apperrors.NotFoundWithID("Token", tokenID)
		}
		return nil, apperrors.Unavailable("Failed to update token status", err)
	}

	s.cfg.Log.Info("Token status changed",
		"token_no", token.TokenNo,
		"from", token.Status,
		"to", status,
	)

	token.Status = status
	return token, nil
}

func (s *tokenService) position(ctx context.Context, token *model.Token) (*model.QueuePosition, error) {
	ahead, err := s.repo.CountAhead(ctx, token.Date, token.Lane, token.Seq)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to count queue position", err)
	}
	position := s.estimator.Estimate(int(ahead))
	return &position, nil
}

// lockWalkinSlot reserves the underlying slot for doctor walk-ins so
// availability queries stop offering it. Losing the race or a store
// hiccup is logged and swallowed; the token is already issued.
func (s *tokenService) lockWalkinSlot(ctx context.Context, appt *model.Appointment) {
	if appt.RecordType != model.RecordTypeDoctor {
		return
	}
	if appt.DoctorID == "" || appt.DateISO == "" || appt.TimeSlot == "" {
		return
	}

	outcome, err := s.slots.Acquire(ctx, appt.DoctorID, appt.DateISO, appt.TimeSlot, appt.PatientID, appt.AppointmentID)
	if err != nil {
		s.cfg.Log.Warn("Failed to lock walk-in slot",
			"doctor_id", appt.DoctorID,
			"date", appt.DateISO,
			"time_slot", appt.TimeSlot,
			"error", err,
		)
		return
	}
	if outcome == model.Conflict {
		s.cfg.Log.Warn("Walk-in slot already claimed by another writer",
			"doctor_id", appt.DoctorID,
			"date", appt.DateISO,
			"time_slot", appt.TimeSlot,
		)
	}
}

// dispatchCheckIn sends the check-in confirmation for doctor visits.
// Everything here degrades silently: a missing phone or time skips the
// send, a resolver failure falls back to the appointment's contact
// name, and a publish failure is logged only.
func (s *tokenService) dispatchCheckIn(ctx context.Context, appt *model.Appointment, token *model.Token) {
	if appt.RecordType != model.RecordTypeDoctor {
		return
	}
	if appt.ContactPhone == "" || appt.DateISO == "" || appt.TimeSlot == "" {
		return
	}

	when, err := time.ParseInLocation("2006-01-02 15:04", appt.DateISO+" "+appt.TimeSlot, s.cfg.ClinicLocation())
	if err != nil {
		s.cfg.Log.Warn("Could not parse appointment time for check-in confirmation",
			"date", appt.DateISO,
			"time_slot", appt.TimeSlot,
			"error", err,
		)
		return
	}

	patientName := appt.ContactName
	if patientName == "" && s.identity != nil {
		if name, err := s.identity.DisplayName(ctx, appt.PatientID); err == nil {
			patientName = name
		}
	}

	doctorName := appt.DoctorName
	if doctorName == "" {
		doctorName = "Doctor"
	}
	clinicName := appt.ClinicName
	if clinicName == "" {
		clinicName = "Clinic"
	}

	err = s.notifier.NotifyCheckIn(ctx, notify.CheckIn{
		Phone:       appt.ContactPhone,
		PatientName: patientName,
		When:        when,
		DoctorName:  doctorName,
		ClinicName:  clinicName,
		TokenNo:     token.TokenNo,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to send check-in confirmation",
			"token_no", token.TokenNo,
			"error", err,
		)
	}
}
