package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds the outbound webhook endpoints. An empty URL disables the
// corresponding client.
type Config struct {
	ApprovalURL   string
	ApprovalToken string
	DrainURL      string
	Timeout       time.Duration
}

func newRestyClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

// ApprovalClient submits newly created assignment requests to the external
// approval endpoint. Calls are bounded by the configured timeout and never
// hold a database transaction open.
type ApprovalClient struct {
	httpClient *resty.Client
	url        string
	token      string
}

// NewApprovalClient creates an approval webhook client
func NewApprovalClient(cfg Config) *ApprovalClient {
	return &ApprovalClient{
		httpClient: newRestyClient(cfg.Timeout),
		url:        cfg.ApprovalURL,
		token:      cfg.ApprovalToken,
	}
}

// Enabled reports whether an approval endpoint is configured
func (c *ApprovalClient) Enabled() bool {
	return c.url != ""
}

type approvalPayload struct {
	Count int    `json:"count"`
	Email string `json:"email"`
}

// RequestApproval posts the request to the approval endpoint. Any non-2xx
// response is an error.
func (c *ApprovalClient) RequestApproval(ctx context.Context, count int, email string) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(approvalPayload{Count: count, Email: email})

	if c.token != "" {
		req.SetHeader("Authorization", "Token "+c.token)
	}

	resp, err := req.Post(c.url)
	if err != nil {
		return fmt.Errorf("failed to send approval request: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("approval endpoint returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

// DrainClient delivers best-effort pool-exhaustion notifications
type DrainClient struct {
	httpClient *resty.Client
	url        string
}

// NewDrainClient creates an exhaustion webhook client
func NewDrainClient(cfg Config) *DrainClient {
	return &DrainClient{
		httpClient: newRestyClient(cfg.Timeout),
		url:        cfg.DrainURL,
	}
}

// Enabled reports whether an exhaustion endpoint is configured
func (c *DrainClient) Enabled() bool {
	return c.url != ""
}

type drainPayload struct {
	Team string `json:"team"`
}

// NotifyTeamDrained posts a pool-exhaustion notification for one team
func (c *DrainClient) NotifyTeamDrained(ctx context.Context, teamTitle string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(drainPayload{Team: teamTitle}).
		Post(c.url)

	if err != nil {
		return fmt.Errorf("failed to send exhaustion notification: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("exhaustion endpoint returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
