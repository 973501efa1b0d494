package model

import (
	"fmt"
	"time"
)

// SlotLock represents exclusive ownership of one bookable slot. At most
// one lock exists per (resource_key, slot_key) pair; the unique _id is
// the mutual-exclusion primitive. Locks are created on check-in
// finalization and deleted on cancellation, never updated in place.
type SlotLock struct {
	ID            string    `json:"id" bson:"_id"`
	ResourceKey   string    `json:"resourceKey" bson:"resource_key"`
	SlotKey       string    `json:"slotKey" bson:"slot_key"`
	PatientID     string    `json:"patientId" bson:"patient_id"`
	AppointmentID string    `json:"appointmentId" bson:"appointment_id"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}

// SlotResourceKey namespaces a doctor identifier for slot locking.
func SlotResourceKey(doctorID string) string {
	return fmt.Sprintf("doctor#%s", doctorID)
}

// SlotKey composes the date and time-slot half of a lock key.
func SlotKey(dateISO, timeSlot string) string {
	return fmt.Sprintf("%s#%s", dateISO, timeSlot)
}

// SlotLockID is the full store key for one slot lock.
func SlotLockID(doctorID, dateISO, timeSlot string) string {
	return SlotResourceKey(doctorID) + "|" + SlotKey(dateISO, timeSlot)
}

// AcquireOutcome is the result of a slot lock acquisition attempt.
type AcquireOutcome string

const (
	// Acquired means this caller created the lock.
	Acquired AcquireOutcome = "acquired"
	// AlreadyHeld means a lock already existed before the attempt.
	// Treated as success so retried check-ins re-attach idempotently.
	AlreadyHeld AcquireOutcome = "alreadyHeld"
	// Conflict means another writer won the create race. Callers must
	// not fail the booking flow on this outcome.
	Conflict AcquireOutcome = "conflict"
)
