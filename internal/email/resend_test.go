package email

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConfigured(t *testing.T) {
	if NewClient("", "noreply@test.com").Configured() {
		t.Error("expected client without API key to be unconfigured")
	}
	if !NewClient("re_key", "noreply@test.com").Configured() {
		t.Error("expected client with API key to be configured")
	}
}

func TestSendInvite(t *testing.T) {
	t.Run("posts_payload_with_auth_header", func(t *testing.T) {
		var gotAuth string
		var gotBody resendEmail
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &gotBody)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient("re_key", "noreply@test.com", WithAPIURL(server.URL))
		err := client.SendInvite("guest@test.com", "Pladsen", "https://app.test/invites/accept?token=abc")
		if err != nil {
			t.Fatalf("expected send to succeed, got %v", err)
		}

		if gotAuth != "Bearer re_key" {
			t.Errorf("expected bearer auth, got %q", gotAuth)
		}
		if gotBody.From != "noreply@test.com" {
			t.Errorf("expected from address, got %q", gotBody.From)
		}
		if len(gotBody.To) != 1 || gotBody.To[0] != "guest@test.com" {
			t.Errorf("unexpected recipients: %v", gotBody.To)
		}
		if !strings.Contains(gotBody.Subject, "Pladsen") {
			t.Errorf("expected household name in subject, got %q", gotBody.Subject)
		}
		if !strings.Contains(gotBody.HTML, "token=abc") {
			t.Error("expected invite link in body")
		}
	})

	t.Run("api_error_surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		client := NewClient("re_key", "noreply@test.com", WithAPIURL(server.URL))
		err := client.SendInvite("guest@test.com", "Pladsen", "https://app.test/invite")
		if err == nil {
			t.Fatal("expected an error for a 4xx response")
		}
	})

	t.Run("unconfigured_client_refuses", func(t *testing.T) {
		client := NewClient("", "noreply@test.com")
		if err := client.SendInvite("guest@test.com", "Pladsen", "https://app.test/invite"); err == nil {
			t.Fatal("expected an error when no API key is set")
		}
	})
}
