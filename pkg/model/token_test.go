package model

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusWaiting, StatusCalled},
		{StatusWaiting, StatusCancelled},
		{StatusCalled, StatusRoomed},
		{StatusCalled, StatusCancelled},
		{StatusRoomed, StatusDone},
		{StatusRoomed, StatusCancelled},
	}
	for _, tr := range allowed {
		if !CanTransition(tr[0], tr[1]) {
			t.Errorf("CanTransition(%q, %q) = false, want true", tr[0], tr[1])
		}
	}

	denied := [][2]string{
		{StatusWaiting, StatusRoomed},
		{StatusWaiting, StatusDone},
		{StatusCalled, StatusWaiting},
		{StatusCalled, StatusDone},
		{StatusRoomed, StatusWaiting},
		{StatusDone, StatusCancelled},
		{StatusDone, StatusWaiting},
		{StatusCancelled, StatusWaiting},
		{StatusCancelled, StatusCancelled},
		{"", StatusWaiting},
	}
	for _, tr := range denied {
		if CanTransition(tr[0], tr[1]) {
			t.Errorf("CanTransition(%q, %q) = true, want false", tr[0], tr[1])
		}
	}
}

func TestIsActive(t *testing.T) {
	for _, status := range []string{StatusWaiting, StatusCalled, StatusRoomed} {
		if !IsActive(status) {
			t.Errorf("IsActive(%q) = false, want true", status)
		}
	}
	for _, status := range []string{StatusDone, StatusCancelled, "", "unknown"} {
		if IsActive(status) {
			t.Errorf("IsActive(%q) = true, want false", status)
		}
	}
}

func TestSlotLockID(t *testing.T) {
	id := SlotLockID("doc-1", "2025-01-10", "10:30")
	if id != "doctor#doc-1|2025-01-10#10:30" {
		t.Errorf("SlotLockID = %q", id)
	}
}

func TestCounterID(t *testing.T) {
	if got := CounterID("2025-01-10", "A"); got != "dayLane:2025-01-10#A" {
		t.Errorf("CounterID = %q", got)
	}
}
