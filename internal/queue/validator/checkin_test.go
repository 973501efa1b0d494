package validator

import (
	"testing"

	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

func newTestValidator() *CheckinValidator {
	return NewCheckinValidator(logger.New(logger.Config{Level: logger.ERROR, Service: "test"}))
}

func TestValidateIssueRequest(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		req     model.IssueTokenRequest
		wantErr bool
	}{
		{
			name:    "valid",
			req:     model.IssueTokenRequest{PatientID: "patient-1", AppointmentID: "appt-001"},
			wantErr: false,
		},
		{
			name:    "missing patient",
			req:     model.IssueTokenRequest{AppointmentID: "appt-001"},
			wantErr: true,
		},
		{
			name:    "missing appointment",
			req:     model.IssueTokenRequest{PatientID: "patient-1"},
			wantErr: true,
		},
		{
			name:    "patient id too short",
			req:     model.IssueTokenRequest{PatientID: "p1", AppointmentID: "appt-001"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateIssueRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIssueRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	v := newTestValidator()

	for _, status := range []string{"waiting", "called", "roomed", "done", "cancelled"} {
		if err := v.ValidateStatusUpdate(&model.TokenStatusUpdate{Status: status}); err != nil {
			t.Errorf("status %q should be valid, got %v", status, err)
		}
	}

	for _, status := range []string{"", "seated", "WAITING"} {
		if err := v.ValidateStatusUpdate(&model.TokenStatusUpdate{Status: status}); err == nil {
			t.Errorf("status %q should be rejected", status)
		}
	}
}
