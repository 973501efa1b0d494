package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/thisisgagangupta/dev-kiosk/pkg/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

// AppointmentDirectory resolves an appointment's slot and contact
// details. It is the source of truth for the doctor/date/time inputs
// of lane routing and slot locking.
type AppointmentDirectory interface {
	GetAppointment(ctx context.Context, patientID, appointmentID string) (*model.Appointment, error)
}

type AppointmentClient struct {
	httpClient *HttpClient
}

func NewAppointmentClient(baseURL string) *AppointmentClient {
	return &AppointmentClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *AppointmentClient) GetAppointment(ctx context.Context, patientID, appointmentID string) (*model.Appointment, error) {
	path := fmt.Sprintf("/api/v1/appointments/%s/%s",
		url.PathEscape(patientID), url.PathEscape(appointmentID))

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, apperrors.Unavailable("appointment directory unreachable", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, apperrors.NotFound("Appointment")
	default:
		return nil, apperrors.Unavailable(
			fmt.Sprintf("appointment directory returned status %d", resp.StatusCode), nil)
	}

	var appt model.Appointment
	if err := resp.DecodeJSON(&appt); err != nil {
		return nil, apperrors.Internal("could not decode appointment response", err)
	}

	if appt.PatientID == "" {
		appt.PatientID = patientID
	}
	if appt.AppointmentID == "" {
		appt.AppointmentID = appointmentID
	}
	return &appt, nil
}
