package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "github.com/thisisgagangupta/dev-kiosk/pkg/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

// Mock services for testing
type mockTokenService struct {
	issueFunc     func(ctx context.Context, patientID, appointmentID string) (*model.Token, *model.QueuePosition, error)
	statusFunc    func(ctx context.Context, tokenNo string) (*model.QueueStatus, error)
	setStatusFunc func(ctx context.Context, tokenID, status string) (*model.Token, error)
}

func (m *mockTokenService) IssueOrGet(ctx context.Context, patientID, appointmentID string) (*model.Token, *model.QueuePosition, error) {
	if m.issueFunc != nil {
		return m.issueFunc(ctx, patientID, appointmentID)
	}
	return &model.Token{}, &model.QueuePosition{}, nil
}

func (m *mockTokenService) Status(ctx context.Context, tokenNo string) (*model.QueueStatus, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, tokenNo)
	}
	return &model.QueueStatus{}, nil
}

func (m *mockTokenService) SetStatus(ctx context.Context, tokenID, status string) (*model.Token, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, tokenID, status)
	}
	return &model.Token{}, nil
}

type mockWallboardService struct {
	nowNextFunc func(ctx context.Context, date, lane string) ([]model.LaneBoard, error)
}

func (m *mockWallboardService) NowNext(ctx context.Context, date, lane string) ([]model.LaneBoard, error) {
	if m.nowNextFunc != nil {
		return m.nowNextFunc(ctx, date, lane)
	}
	return []model.LaneBoard{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "ERROR",
		Format:  logger.JSON,
		Service: "test",
	})
}

func newTestRouter(tokens *mockTokenService, wallboard *mockWallboardService) *httprouter.Router {
	router := httprouter.New()
	NewQueueHandler(tokens, wallboard, testLogger()).RegisterRoutes(router)
	return router
}

func TestIssue_Success(t *testing.T) {
	var receivedPatient, receivedAppointment string
	tokens := &mockTokenService{
		issueFunc: func(ctx context.Context, patientID, appointmentID string) (*model.Token, *model.QueuePosition, error) {
			receivedPatient = patientID
			receivedAppointment = appointmentID
			return &model.Token{TokenNo: "A1", Status: model.StatusWaiting},
				&model.QueuePosition{Position: 0, EtaLow: 0, EtaHigh: 12, Confidence: 70},
				nil
		},
	}
	router := newTestRouter(tokens, &mockWallboardService{})

	body := `{"patientId":"patient-001","appointmentId":"appt-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/checkin/issue", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if receivedPatient != "patient-001" || receivedAppointment != "appt-001" {
		t.Errorf("service received (%q, %q)", receivedPatient, receivedAppointment)
	}

	var resp struct {
		Data IssueTokenResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Token.TokenNo != "A1" {
		t.Errorf("tokenNo = %q, want A1", resp.Data.Token.TokenNo)
	}
	if resp.Data.Position.EtaHigh != 12 {
		t.Errorf("etaHigh = %d, want 12", resp.Data.Position.EtaHigh)
	}
}

func TestIssue_MalformedBody(t *testing.T) {
	router := newTestRouter(&mockTokenService{}, &mockWallboardService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/kiosk/checkin/issue", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestStatus_PassesTokenNo(t *testing.T) {
	var receivedTokenNo string
	tokens := &mockTokenService{
		statusFunc: func(ctx context.Context, tokenNo string) (*model.QueueStatus, error) {
			receivedTokenNo = tokenNo
			return &model.QueueStatus{TokenNo: tokenNo, Position: 2, Status: model.StatusWaiting}, nil
		},
	}
	router := newTestRouter(tokens, &mockWallboardService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/queue/status?tokenNo=A3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if receivedTokenNo != "A3" {
		t.Errorf("service received tokenNo %q, want A3", receivedTokenNo)
	}
}

func TestStatus_NotFound(t *testing.T) {
	tokens := &mockTokenService{
		statusFunc: func(ctx context.Context, tokenNo string) (*model.QueueStatus, error) {
			return nil, apperrors.NotFoundWithID("Token", tokenNo)
		},
	}
	router := newTestRouter(tokens, &mockWallboardService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/queue/status?tokenNo=Z99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != apperrors.CodeNotFound {
		t.Errorf("code = %q, want %q", resp.Code, apperrors.CodeNotFound)
	}
}

func TestSetStatus_InvalidTransition(t *testing.T) {
	tokens := &mockTokenService{
		setStatusFunc: func(ctx context.Context, tokenID, status string) (*model.Token, error) {
			return nil, apperrors.InvalidTransition(model.StatusDone, status)
		},
	}
	router := newTestRouter(tokens, &mockWallboardService{})

	body := `{"status":"called"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/queue/tokens/tok-1/status", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestWallboard_PassesQueryParameters(t *testing.T) {
	var receivedDate, receivedLane string
	wallboard := &mockWallboardService{
		nowNextFunc: func(ctx context.Context, date, lane string) ([]model.LaneBoard, error) {
			receivedDate = date
			receivedLane = lane
			return []model.LaneBoard{{Lane: lane, Now: []string{}, Next: []string{}, TokenTimes: map[string]string{}}}, nil
		},
	}
	router := newTestRouter(&mockTokenService{}, wallboard)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallboard/now-next?date=2025-01-10&lane=A", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if receivedDate != "2025-01-10" || receivedLane != "A" {
		t.Errorf("service received (%q, %q)", receivedDate, receivedLane)
	}
}
