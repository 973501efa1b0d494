package service

import (
	"context"

	"github.com/thisisgagangupta/dev-kiosk/internal/queue/repository"
	"github.com/thisisgagangupta/dev-kiosk/pkg/config"
	apperrors "github.com/thisisgagangupta/dev-kiosk/pkg/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

const nextDisplayCount = 5

// WallboardService projects the live queue per lane for the waiting
// room display. Read-only; it never mutates token records.
type WallboardService interface {
	NowNext(ctx context.Context, date, lane string) ([]model.LaneBoard, error)
}

type wallboardService struct {
	repo  repository.TokenRepository
	lanes *LaneRouter
	cfg   *config.Config
}

func NewWallboardService(repo repository.TokenRepository, lanes *LaneRouter, cfg *config.Config) WallboardService {
	return &wallboardService{repo: repo, lanes: lanes, cfg: cfg}
}

// NowNext builds one board per requested lane. An empty date means the
// clinic-local today; an empty lane means every configured lane.
func (s *wallboardService) NowNext(ctx context.Context, date, lane string) ([]model.LaneBoard, error) {
	if date == "" {
		date = s.cfg.Today()
	}

	laneIDs := s.lanes.Lanes()
	if lane != "" {
		laneIDs = []string{lane}
	}

	boards := make([]model.LaneBoard, 0, len(laneIDs))
	for _, id := range laneIDs {
		board, err := s.laneBoard(ctx, date, id)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *board)
	}
	return boards, nil
}

func (s *wallboardService) laneBoard(ctx context.Context, date, lane string) (*model.LaneBoard, error) {
	active, err := s.repo.FindActiveByLane(ctx, date, lane, s.cfg.WallboardLimit)
	if err != nil {
		return nil, apperrors.Unavailable("Failed to load lane tokens", err)
	}

	board := &model.LaneBoard{
		Lane:       lane,
		Now:        []string{},
		Next:       []string{},
		AvgWait:    s.cfg.ConsultAvgMin,
		TokenTimes: map[string]string{},
	}

	// A token is shown as "now" only while it heads the lane and is
	// still waiting. Once called or roomed the head slot goes dark
	// until it completes, so now can be empty mid-day.
	for i, token := range active {
		if token.Status != model.StatusWaiting {
			continue
		}
		if i == 0 {
			board.Now = append(board.Now, token.TokenNo)
		} else if len(board.Next) < nextDisplayCount {
			board.Next = append(board.Next, token.TokenNo)
		}
		if token.TimeSlot != "" {
			board.TokenTimes[token.TokenNo] = token.TimeSlot
		}
	}

	return board, nil
}
