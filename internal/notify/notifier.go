package notify

import (
	"context"
	"time"

	"github.com/thisisgagangupta/dev-kiosk/pkg/kafka"
)

const (
	EventTypeCheckinConfirmed = "checkin.confirmed"

	schemaVersion = "1"
	sourceService = "queue"
)

// CheckIn is everything a downstream sender needs to confirm a
// check-in to the patient.
type CheckIn struct {
	Phone       string
	PatientName string
	When        time.Time
	DoctorName  string
	ClinicName  string
	TokenNo     string
}

// CheckInNotifier is the dispatch boundary for check-in confirmations.
// Callers fire and forget: a notifier error must never fail the token
// flow that triggered it.
type CheckInNotifier interface {
	NotifyCheckIn(ctx context.Context, checkIn CheckIn) error
}

type checkinEvent struct {
	Phone       string `json:"phone"`
	PatientName string `json:"patientName"`
	WhenLocal   string `json:"whenLocal"`
	DoctorName  string `json:"doctorName"`
	ClinicName  string `json:"clinicName"`
	TokenNo     string `json:"tokenNo"`
}

// kafkaNotifier publishes confirmation events keyed by phone number so
// messages for one patient stay ordered on a single partition.
type kafkaNotifier struct {
	producer *kafka.Producer
}

func NewKafkaNotifier(producer *kafka.Producer) CheckInNotifier {
	return &kafkaNotifier{producer: producer}
}

func (n *kafkaNotifier) NotifyCheckIn(ctx context.Context, checkIn CheckIn) error {
	msg := kafka.NewMessage().
		WithKey(checkIn.Phone).
		WithEventType(EventTypeCheckinConfirmed).
		WithSource(sourceService).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(checkIn.TokenNo).
		WithValue(checkinEvent{
			Phone:       checkIn.Phone,
			PatientName: checkIn.PatientName,
			WhenLocal:   checkIn.When.Format(time.RFC3339),
			DoctorName:  checkIn.DoctorName,
			ClinicName:  checkIn.ClinicName,
			TokenNo:     checkIn.TokenNo,
		}).
		Build()

	return n.producer.Publish(ctx, msg)
}

// NoopNotifier drops notifications. Used when no broker is configured
// and in tests.
type NoopNotifier struct{}

func (NoopNotifier) NotifyCheckIn(context.Context, CheckIn) error {
	return nil
}
