package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

func seedToken(t *testing.T, repo *memTokenRepository, date, lane string, seq int64, status, timeSlot string) {
	t.Helper()
	err := repo.Create(context.Background(), &model.Token{
		TokenID:       uuid.NewString(),
		TokenNo:       fmt.Sprintf("%s%d", lane, seq),
		PatientID:     "patient-001",
		AppointmentID: fmt.Sprintf("appt-%s-%d", lane, seq),
		Date:          date,
		Lane:          lane,
		Seq:           seq,
		Status:        status,
		TimeSlot:      timeSlot,
	})
	if err != nil {
		t.Fatalf("seed token %s%d: %v", lane, seq, err)
	}
}

func TestNowNext_AllWaiting(t *testing.T) {
	cfg := testConfig()
	repo := newMemTokenRepository()
	svc := NewWallboardService(repo, NewLaneRouter(cfg.QueueLanes), cfg)

	seedToken(t, repo, "2025-01-10", "A", 1, model.StatusWaiting, "10:00")
	seedToken(t, repo, "2025-01-10", "A", 2, model.StatusWaiting, "10:15")
	seedToken(t, repo, "2025-01-10", "A", 3, model.StatusWaiting, "")

	boards, err := svc.NowNext(context.Background(), "2025-01-10", "A")
	if err != nil {
		t.Fatalf("nowNext: %v", err)
	}
	if len(boards) != 1 {
		t.Fatalf("expected 1 board, got %d", len(boards))
	}

	board := boards[0]
	if len(board.Now) != 1 || board.Now[0] != "A1" {
		t.Errorf("now = %v, want [A1]", board.Now)
	}
	if len(board.Next) != 2 || board.Next[0] != "A2" || board.Next[1] != "A3" {
		t.Errorf("next = %v, want [A2 A3]", board.Next)
	}
	if board.AvgWait != cfg.ConsultAvgMin {
		t.Errorf("avgWait = %d, want %d", board.AvgWait, cfg.ConsultAvgMin)
	}
	if len(board.TokenTimes) != 2 || board.TokenTimes["A1"] != "10:00" || board.TokenTimes["A2"] != "10:15" {
		t.Errorf("tokenTimes = %v, want times for A1 and A2 only", board.TokenTimes)
	}
}

func TestNowNext_HeadCalledLeavesNowEmpty(t *testing.T) {
	cfg := testConfig()
	repo := newMemTokenRepository()
	svc := NewWallboardService(repo, NewLaneRouter(cfg.QueueLanes), cfg)

	seedToken(t, repo, "2025-01-10", "A", 1, model.StatusCalled, "10:00")
	seedToken(t, repo, "2025-01-10", "A", 2, model.StatusWaiting, "10:15")
	seedToken(t, repo, "2025-01-10", "A", 3, model.StatusWaiting, "10:30")

	boards, err := svc.NowNext(context.Background(), "2025-01-10", "A")
	if err != nil {
		t.Fatalf("nowNext: %v", err)
	}

	board := boards[0]
	if len(board.Now) != 0 {
		t.Errorf("now = %v, want empty while the head token is called", board.Now)
	}
	if len(board.Next) != 2 || board.Next[0] != "A2" || board.Next[1] != "A3" {
		t.Errorf("next = %v, want [A2 A3]", board.Next)
	}
	if _, ok := board.TokenTimes["A1"]; ok {
		t.Errorf("tokenTimes should not include the called token: %v", board.TokenTimes)
	}
}

func TestNowNext_ExcludesTerminalTokens(t *testing.T) {
	cfg := testConfig()
	repo := newMemTokenRepository()
	svc := NewWallboardService(repo, NewLaneRouter(cfg.QueueLanes), cfg)

	seedToken(t, repo, "2025-01-10", "A", 1, model.StatusDone, "09:45")
	seedToken(t, repo, "2025-01-10", "A", 2, model.StatusCancelled, "10:00")
	seedToken(t, repo, "2025-01-10", "A", 3, model.StatusWaiting, "10:15")

	boards, err := svc.NowNext(context.Background(), "2025-01-10", "A")
	if err != nil {
		t.Fatalf("nowNext: %v", err)
	}

	board := boards[0]
	if len(board.Now) != 1 || board.Now[0] != "A3" {
		t.Errorf("now = %v, want [A3] once earlier tokens are terminal", board.Now)
	}
	if len(board.Next) != 0 {
		t.Errorf("next = %v, want empty", board.Next)
	}
}

func TestNowNext_CapsNextAtFive(t *testing.T) {
	cfg := testConfig()
	repo := newMemTokenRepository()
	svc := NewWallboardService(repo, NewLaneRouter(cfg.QueueLanes), cfg)

	for seq := int64(1); seq <= 10; seq++ {
		seedToken(t, repo, "2025-01-10", "A", seq, model.StatusWaiting, "")
	}

	boards, err := svc.NowNext(context.Background(), "2025-01-10", "A")
	if err != nil {
		t.Fatalf("nowNext: %v", err)
	}

	board := boards[0]
	if len(board.Now) != 1 || board.Now[0] != "A1" {
		t.Errorf("now = %v, want [A1]", board.Now)
	}
	want := []string{"A2", "A3", "A4", "A5", "A6"}
	if len(board.Next) != len(want) {
		t.Fatalf("next = %v, want %v", board.Next, want)
	}
	for i := range want {
		if board.Next[i] != want[i] {
			t.Errorf("next[%d] = %q, want %q", i, board.Next[i], want[i])
		}
	}
}

func TestNowNext_EmptyLane(t *testing.T) {
	cfg := testConfig()
	repo := newMemTokenRepository()
	svc := NewWallboardService(repo, NewLaneRouter(cfg.QueueLanes), cfg)

	boards, err := svc.NowNext(context.Background(), "2025-01-10", "A")
	if err != nil {
		t.Fatalf("nowNext: %v", err)
	}

	board := boards[0]
	if board.Now == nil || board.Next == nil || board.TokenTimes == nil {
		t.Errorf("empty lane must serialize as empty collections, got %+v", board)
	}
	if len(board.Now) != 0 || len(board.Next) != 0 {
		t.Errorf("expected empty board, got now=%v next=%v", board.Now, board.Next)
	}
}

func TestNowNext_AllConfiguredLanes(t *testing.T) {
	cfg := testConfig()
	cfg.QueueLanes = []string{"A", "B"}
	repo := newMemTokenRepository()
	svc := NewWallboardService(repo, NewLaneRouter(cfg.QueueLanes), cfg)

	seedToken(t, repo, "2025-01-10", "A", 1, model.StatusWaiting, "")
	seedToken(t, repo, "2025-01-10", "B", 1, model.StatusWaiting, "")

	boards, err := svc.NowNext(context.Background(), "2025-01-10", "")
	if err != nil {
		t.Fatalf("nowNext: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected one board per configured lane, got %d", len(boards))
	}
	if boards[0].Lane != "A" || boards[1].Lane != "B" {
		t.Errorf("lanes = %q,%q, want A,B", boards[0].Lane, boards[1].Lane)
	}
	if len(boards[0].Now) != 1 || boards[0].Now[0] != "A1" {
		t.Errorf("lane A now = %v, want [A1]", boards[0].Now)
	}
	if len(boards[1].Now) != 1 || boards[1].Now[0] != "B1" {
		t.Errorf("lane B now = %v, want [B1]", boards[1].Now)
	}
}

func TestNowNext_IgnoresOtherDates(t *testing.T) {
	cfg := testConfig()
	repo := newMemTokenRepository()
	svc := NewWallboardService(repo, NewLaneRouter(cfg.QueueLanes), cfg)

	seedToken(t, repo, "2025-01-09", "A", 1, model.StatusWaiting, "")
	seedToken(t, repo, "2025-01-10", "A", 1, model.StatusWaiting, "")

	boards, err := svc.NowNext(context.Background(), "2025-01-10", "A")
	if err != nil {
		t.Fatalf("nowNext: %v", err)
	}
	board := boards[0]
	if len(board.Now) != 1 || len(board.Next) != 0 {
		t.Errorf("expected only today's token, got now=%v next=%v", board.Now, board.Next)
	}
}
