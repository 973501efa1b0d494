package model

import "time"

// Token statuses. Transitions only move forward, except cancellation
// which is reachable from any non-terminal status.
const (
	StatusWaiting   = "waiting"
	StatusCalled    = "called"
	StatusRoomed    = "roomed"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

// allowedTransitions maps a status to the statuses it may move to.
var allowedTransitions = map[string][]string{
	StatusWaiting: {StatusCalled, StatusCancelled},
	StatusCalled:  {StatusRoomed, StatusCancelled},
	StatusRoomed:  {StatusDone, StatusCancelled},
}

// CanTransition reports whether a token may move from one status to
// another. Terminal statuses (done, cancelled) allow nothing.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActive reports whether a token still occupies a place in its lane.
// Only active tokens count toward position and wallboard projections.
func IsActive(status string) bool {
	switch status {
	case StatusWaiting, StatusCalled, StatusRoomed:
		return true
	}
	return false
}

// Token is one queue ticket for one appointment. Tokens are never
// deleted; they are retained for the day's audit trail.
type Token struct {
	TokenID       string    `json:"tokenId" bson:"_id" validate:"required,uuid4"`
	TokenNo       string    `json:"tokenNo" bson:"token_no" validate:"required,min=2"`
	PatientID     string    `json:"patientId" bson:"patient_id" validate:"required,min=6"`
	AppointmentID string    `json:"appointmentId" bson:"appointment_id" validate:"required,min=6"`
	DoctorID      string    `json:"doctorId" bson:"doctor_id"`
	Date          string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Lane          string    `json:"lane" bson:"lane" validate:"required"`
	Seq           int64     `json:"seq" bson:"seq" validate:"required,min=1"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=waiting called roomed done cancelled"`
	IssuedAt      time.Time `json:"issuedAt" bson:"issued_at"`
	EtaLow        int       `json:"etaLow" bson:"eta_low"`
	EtaHigh       int       `json:"etaHigh" bson:"eta_high"`
	TimeSlot      string    `json:"timeSlot" bson:"time_slot"`
}

// IssueTokenRequest is the kiosk check-in payload.
type IssueTokenRequest struct {
	PatientID     string `json:"patientId" validate:"required,min=6"`
	AppointmentID string `json:"appointmentId" validate:"required,min=6"`
}

// TokenStatusUpdate carries a staff-driven status change request.
type TokenStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=waiting called roomed done cancelled"`
}

// QueuePosition is the position/ETA view computed fresh for a token.
type QueuePosition struct {
	Position   int `json:"position"`
	EtaLow     int `json:"etaLow"`
	EtaHigh    int `json:"etaHigh"`
	Confidence int `json:"confidence"`
}

// QueueStatus is the public status view returned for a token number.
type QueueStatus struct {
	TokenNo    string `json:"tokenNo"`
	Position   int    `json:"position"`
	EtaLow     int    `json:"etaLow"`
	EtaHigh    int    `json:"etaHigh"`
	Confidence int    `json:"confidence"`
	Status     string `json:"status"`
}

// LaneBoard is the wallboard projection for one lane: the currently
// served waiting token, the next few, and the scheduled time of each
// waiting token. Now may legitimately be empty mid-day when the first
// active token is already called or roomed.
type LaneBoard struct {
	Lane       string            `json:"lane"`
	Now        []string          `json:"now"`
	Next       []string          `json:"next"`
	AvgWait    int               `json:"avg_wait"`
	TokenTimes map[string]string `json:"tokenTimes"`
}
