package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// IdentityResolver looks up a patient's display name. Strictly
// best-effort: queue operations never block on it, and callers treat
// any failure as an empty name.
type IdentityResolver interface {
	DisplayName(ctx context.Context, patientID string) (string, error)
}

type IdentityClient struct {
	httpClient *HttpClient
}

func NewIdentityClient(baseURL string) *IdentityClient {
	return &IdentityClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *IdentityClient) DisplayName(ctx context.Context, patientID string) (string, error) {
	path := "/api/v1/patients/" + url.PathEscape(patientID) + "/display-name"

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity resolver returned status %d", resp.StatusCode)
	}

	var body struct {
		DisplayName string `json:"displayName"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return "", err
	}
	return body.DisplayName, nil
}
