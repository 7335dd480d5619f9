package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow(t *testing.T) {
	t.Run("register_login_profile", func(t *testing.T) {
		app := setupApp(t)

		access, refresh, userID := app.registerUser(t, "kari@test.com", "password123")
		if access == "" || refresh == "" || userID == "" {
			t.Fatal("expected full token pair and user ID on register")
		}

		rec := app.request("GET", "/api/v1/profile", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("profile failed: %d %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["email"] != "kari@test.com" {
			t.Errorf("expected registered email, got %v", user["email"])
		}

		access2, _ := app.loginUser(t, "kari@test.com", "password123")
		if access2 == "" {
			t.Fatal("expected access token on login")
		}
	})

	t.Run("duplicate_registration_rejected", func(t *testing.T) {
		app := setupApp(t)
		app.registerUser(t, "kari@test.com", "password123")

		body := `{"email":"kari@test.com","password":"password123","full_name":"Kari"}`
		rec := app.request("POST", "/api/v1/auth/register", body, "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d %s", rec.Code, rec.Body.String())
		}
		if code := errorCode(t, rec); code != "DUPLICATE_EMAIL" {
			t.Errorf("expected DUPLICATE_EMAIL, got %s", code)
		}
	})

	t.Run("wrong_password_rejected", func(t *testing.T) {
		app := setupApp(t)
		app.registerUser(t, "kari@test.com", "password123")

		rec := app.request("POST", "/api/v1/auth/login", `{"email":"kari@test.com","password":"nope12345"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "INVALID_CREDENTIALS" {
			t.Errorf("expected INVALID_CREDENTIALS, got %s", code)
		}
	})

	t.Run("account_locks_after_repeated_failures", func(t *testing.T) {
		app := setupApp(t)
		app.registerUser(t, "kari@test.com", "password123")

		for i := 0; i < 5; i++ {
			rec := app.request("POST", "/api/v1/auth/login", `{"email":"kari@test.com","password":"nope12345"}`, "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
			}
		}

		rec := app.request("POST", "/api/v1/auth/login", `{"email":"kari@test.com","password":"password123"}`, "")
		if rec.Code != http.StatusLocked {
			t.Fatalf("expected 423, got %d %s", rec.Code, rec.Body.String())
		}
		if code := errorCode(t, rec); code != "ACCOUNT_LOCKED" {
			t.Errorf("expected ACCOUNT_LOCKED, got %s", code)
		}
	})

	t.Run("refresh_rotates_token", func(t *testing.T) {
		app := setupApp(t)
		_, refresh, _ := app.registerUser(t, "kari@test.com", "password123")

		body := fmt.Sprintf(`{"refresh_token":%q}`, refresh)
		rec := app.request("POST", "/api/v1/auth/refresh", body, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		newRefresh := result["refresh_token"].(string)
		if newRefresh == refresh {
			t.Error("expected a rotated refresh token")
		}

		// The old token is single-use.
		rec = app.request("POST", "/api/v1/auth/refresh", body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for reused refresh token, got %d", rec.Code)
		}

		// The rotated token still works.
		body = fmt.Sprintf(`{"refresh_token":%q}`, newRefresh)
		rec = app.request("POST", "/api/v1/auth/refresh", body, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("rotated refresh failed: %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("protected_route_requires_token", func(t *testing.T) {
		app := setupApp(t)

		rec := app.request("GET", "/api/v1/profile", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("update_profile", func(t *testing.T) {
		app := setupApp(t)
		access, _, _ := app.registerUser(t, "kari@test.com", "password123")

		rec := app.request("PUT", "/api/v1/profile", `{"full_name":"Kari Nordmann"}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["full_name"] != "Kari Nordmann" {
			t.Errorf("expected updated name, got %v", user["full_name"])
		}
	})
}
