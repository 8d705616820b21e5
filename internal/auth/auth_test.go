package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestNew_DefaultTTL(t *testing.T) {
	a := New("secret", 0)
	if a.ttl != DefaultTokenTTL {
		t.Errorf("expected default ttl, got %v", a.ttl)
	}
}

func TestIssueAndParse(t *testing.T) {
	a := New("test-secret", time.Hour)

	token, expires, err := a.Issue(7, "marshal", true)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(expires) <= 0 || time.Until(expires) > time.Hour {
		t.Errorf("unexpected expiry %v", expires)
	}

	claims, err := a.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "marshal" || !claims.IsStaff {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" || claims.Subject != "7" {
		t.Errorf("expected jti and subject, got %+v", claims.RegisteredClaims)
	}

	other, _, err := a.Issue(7, "marshal", true)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	otherClaims, err := a.Parse(other)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if otherClaims.ID == claims.ID {
		t.Error("expected unique token ids")
	}
}

func TestParse_Rejects(t *testing.T) {
	a := New("test-secret", time.Hour)
	good, _, err := a.Issue(1, "u", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	expired := New("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(1, "u", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	wrongKey, _, err := New("other-secret", time.Hour).Issue(1, "u", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none failed: %v", err)
	}

	tests := map[string]string{
		"expired":   old,
		"wrong key": wrongKey,
		"alg none":  none,
		"garbage":   "not.a.token",
		"tampered":  good[:len(good)-2] + "xx",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := a.Parse(token); err != ErrInvalidToken {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestRequireAuthAPI(t *testing.T) {
	a := New("test-secret", time.Hour)
	token, _, err := a.Issue(3, "volunteer", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var seenID int
	handler := a.RequireAuthAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenID = 0
			req := httptest.NewRequest("GET", "/api/races", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if tt.status == http.StatusOK && seenID != 3 {
				t.Errorf("expected user 3 in context, got %d", seenID)
			}
			if tt.status == http.StatusUnauthorized && !strings.Contains(w.Body.String(), `"code":"UNAUTHORIZED"`) {
				t.Errorf("unexpected body: %s", w.Body.String())
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	a := New("test-secret", time.Hour)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := a.RequireAuthAPI(RequireStaff(ok))

	staff, _, _ := a.Issue(1, "director", true)
	volunteer, _, _ := a.Issue(2, "volunteer", false)

	for token, want := range map[string]int{staff: http.StatusNoContent, volunteer: http.StatusForbidden} {
		req := httptest.NewRequest("POST", "/api/auth/register", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("expected %d, got %d", want, w.Code)
		}
	}

	// without RequireAuthAPI in front there are no claims
	w := httptest.NewRecorder()
	RequireStaff(ok).ServeHTTP(w, httptest.NewRequest("POST", "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without claims, got %d", w.Code)
	}
}
