package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	accessToken, refreshToken := app.registerUser(t, "auth@example.com", "password123")

	// Access token works against a protected route.
	rec := app.request("GET", "/api/v1/profile", "", accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile failed: %d %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "auth@example.com" {
		t.Errorf("expected profile email auth@example.com, got %v", user["email"])
	}

	// Login issues a fresh token pair.
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"auth@example.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	refreshToken = result["refresh_token"].(string)

	// Refresh rotates the pair; the old refresh token stops working.
	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refreshToken), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	rotated := parseJSON(t, rec)
	if rotated["access_token"].(string) == "" {
		t.Error("expected new access token from refresh")
	}

	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refreshToken), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 reusing rotated refresh token, got %d", rec.Code)
	}
}

func TestAuthRejections(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "taken@example.com", "password123")

	t.Run("duplicate email", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/auth/register",
			`{"email":"taken@example.com","password":"password123","first_name":"A","last_name":"B"}`, "")
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/auth/login",
			`{"email":"taken@example.com","password":"wrongpassword"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/profile", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/profile", "", "not-a-jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}
