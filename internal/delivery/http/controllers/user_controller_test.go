package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

type mockUserService struct {
	token string
	user  *domain.User
	err   error

	signedOut string
	email     string
	password  string
}

func (m *mockUserService) SignUp(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	if m.err != nil {
		return "", nil, m.err
	}
	return m.token, m.user, nil
}

func (m *mockUserService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	m.email = email
	m.password = password
	if m.err != nil {
		return "", nil, m.err
	}
	return m.token, m.user, nil
}

func (m *mockUserService) SignOut(ctx context.Context, userID string) error {
	m.signedOut = userID
	return m.err
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return m.user, m.err
}

func TestUserController_SignUp_Success(t *testing.T) {
	svc := &mockUserService{token: "tok", user: &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}}
	ctrl := NewUserController(testLogger(), svc)

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter2hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/users/sign-up", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.SignUp(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var resp struct {
		Data *SessionResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data == nil || resp.Data.Token != "tok" || resp.Data.TokenType != "Bearer" {
		t.Fatalf("unexpected session payload: %+v", resp.Data)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatal("response must not leak password material")
	}
}

func TestUserController_SignUp_MissingFields(t *testing.T) {
	ctrl := NewUserController(testLogger(), &mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/users/sign-up", strings.NewReader(`{"email":"ada@example.com"}`))
	w := httptest.NewRecorder()

	ctrl.SignUp(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestUserController_SignUp_DuplicateEmail(t *testing.T) {
	svc := &mockUserService{err: domain.ErrDuplicateEmail}
	ctrl := NewUserController(testLogger(), svc)

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter2hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/users/sign-up", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.SignUp(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeConflict {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestUserController_SignIn_Basic(t *testing.T) {
	svc := &mockUserService{token: "tok", user: &domain.User{ID: "u1", Email: "ada@example.com"}}
	ctrl := NewUserController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/users/sign-in", nil)
	req.SetBasicAuth("ada@example.com", "hunter2hunter2")
	w := httptest.NewRecorder()

	ctrl.SignIn(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if svc.email != "ada@example.com" || svc.password != "hunter2hunter2" {
		t.Fatalf("basic credentials not forwarded: %q / %q", svc.email, svc.password)
	}
}

func TestUserController_SignIn_NoCredentials(t *testing.T) {
	ctrl := NewUserController(testLogger(), &mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/users/sign-in", nil)
	w := httptest.NewRecorder()

	ctrl.SignIn(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got == "" {
		t.Fatal("expected WWW-Authenticate challenge")
	}
}

func TestUserController_SignIn_BadCredentials(t *testing.T) {
	svc := &mockUserService{err: domain.ErrInvalidCredentials}
	ctrl := NewUserController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/users/sign-in", nil)
	req.SetBasicAuth("ada@example.com", "wrong")
	w := httptest.NewRecorder()

	ctrl.SignIn(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestUserController_SignOut(t *testing.T) {
	svc := &mockUserService{}
	ctrl := NewUserController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/users/sign-out", nil)
	req = req.WithContext(middleware.SetUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	ctrl.SignOut(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if svc.signedOut != "u1" {
		t.Fatalf("expected sign-out of u1, got %q", svc.signedOut)
	}
}

func TestUserController_SignOut_Unauthenticated(t *testing.T) {
	ctrl := NewUserController(testLogger(), &mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/users/sign-out", nil)
	w := httptest.NewRecorder()

	ctrl.SignOut(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
