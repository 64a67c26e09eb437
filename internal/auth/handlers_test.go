package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avp818/coach-hub/internal/config"
	"github.com/avp818/coach-hub/internal/storage"
	"github.com/avp818/coach-hub/internal/storage/memory"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test_secret",
		JWTIssuer:     "coach-hub-test",
		JWTTTLMinutes: 60,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterTrainer(t *testing.T) {
	store := memory.New()
	service := NewService(testConfig(), store)

	rec := postJSON(t, HandleRegisterTrainer(service), RegisterTrainerRequest{
		Email:    "Coach@Example.com",
		Password: "supersecret",
		Name:     "Coach",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.Role != storage.RoleTrainer {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// Email is normalized to lower case.
	if _, found, _ := store.GetUserByEmail(context.Background(), "coach@example.com"); !found {
		t.Fatal("expected normalized email to be stored")
	}

	// Same email again conflicts.
	rec = postJSON(t, HandleRegisterTrainer(service), RegisterTrainerRequest{
		Email:    "coach@example.com",
		Password: "supersecret",
		Name:     "Coach",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rec.Code)
	}
}

func TestRegisterTrainer_Validation(t *testing.T) {
	service := NewService(testConfig(), memory.New())

	cases := []struct {
		name string
		req  RegisterTrainerRequest
	}{
		{"bad email", RegisterTrainerRequest{Email: "nope", Password: "supersecret", Name: "X"}},
		{"short password", RegisterTrainerRequest{Email: "a@b.com", Password: "short", Name: "X"}},
		{"no name", RegisterTrainerRequest{Email: "a@b.com", Password: "supersecret", Name: "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, HandleRegisterTrainer(service), tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRegisterClient_DeadCodeLeavesNoAccount(t *testing.T) {
	store := memory.New()
	service := NewService(testConfig(), store)

	rec := postJSON(t, HandleRegisterClient(service), RegisterClientRequest{
		Email:      "client@example.com",
		Password:   "supersecret",
		Name:       "Client",
		InviteCode: "000000",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unknown code, got %d", rec.Code)
	}

	if _, found, _ := store.GetUserByEmail(context.Background(), "client@example.com"); found {
		t.Fatal("no account must exist after a failed redemption")
	}
}

func TestRegisterClient_WithInvite(t *testing.T) {
	store := memory.New()
	service := NewService(testConfig(), store)

	_, trainer, err := store.CreateTrainerAccount(context.Background(), storage.NewAccount{
		Email: "coach@example.com", PasswordHash: "x", Name: "Coach",
	})
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}

	invite := &storage.Invite{
		TrainerID: trainer.ID,
		Code:      "123456",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.CreateInvite(context.Background(), invite); err != nil {
		t.Fatalf("create invite: %v", err)
	}

	rec := postJSON(t, HandleRegisterClient(service), RegisterClientRequest{
		Email:      "client@example.com",
		Password:   "supersecret",
		Name:       "Client",
		InviteCode: "123456",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	client, found, _ := store.GetClient(context.Background(), resp.ProfileID)
	if !found {
		t.Fatal("client profile not found")
	}
	if client.CurrentTrainerID == nil || *client.CurrentTrainerID != trainer.ID {
		t.Fatalf("client not paired with issuing trainer: %+v", client)
	}

	// Code is single use.
	rec = postJSON(t, HandleRegisterClient(service), RegisterClientRequest{
		Email:      "other@example.com",
		Password:   "supersecret",
		Name:       "Other",
		InviteCode: "123456",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused code, got %d", rec.Code)
	}
}

func TestLoginAndVerify(t *testing.T) {
	store := memory.New()
	service := NewService(testConfig(), store)

	if _, err := service.RegisterTrainer(context.Background(), RegisterTrainerRequest{
		Email: "coach@example.com", Password: "supersecret", Name: "Coach",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	rec := postJSON(t, HandleLogin(service), LoginRequest{Email: "coach@example.com", Password: "wrong-password"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	rec = postJSON(t, HandleLogin(service), LoginRequest{Email: "coach@example.com", Password: "supersecret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	sub, role, err := service.VerifyJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if sub != resp.UserID.String() || role != storage.RoleTrainer {
		t.Fatalf("unexpected claims: sub=%q role=%q", sub, role)
	}
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	service := NewService(testConfig(), memory.New())
	mw := NewMiddleware(service)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}

	// Health check stays public.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for public path, got %d", rec.Code)
	}
}
