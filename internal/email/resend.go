// Package email sends transactional email through the Resend API.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultAPIURL = "https://api.resend.com/emails"

// Client sends invitation emails via Resend.
type Client struct {
	apiKey     string
	fromEmail  string
	apiURL     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIURL overrides the Resend endpoint, mainly for tests.
func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(apiKey, fromEmail string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		apiURL:     defaultAPIURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendInvite sends a household invitation email containing the invite link.
func (c *Client) SendInvite(toEmail, householdName, inviteURL string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing API key")
	}

	if householdName == "" {
		householdName = "a household"
	}

	subject := fmt.Sprintf("You're invited to join %s", householdName)
	htmlBody := fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; line-height: 1.5;">
  <h2>You're invited</h2>
  <p>You have been invited to join <strong>%s</strong> on Cashflow.</p>
  <p><a href="%s">Accept invitation</a></p>
  <p>If the button doesn't work, copy this link: %s</p>
</div>`,
		householdName, inviteURL, inviteURL,
	)

	payload := resendEmail{
		From:    c.fromEmail,
		To:      []string{toEmail},
		Subject: subject,
		HTML:    htmlBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}

	return nil
}
