//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"familycart-go/internal/config"
	"familycart-go/internal/db"
	familydomain "familycart-go/internal/domain/family"
	grocerydomain "familycart-go/internal/domain/grocery"
	userdomain "familycart-go/internal/domain/user"
	familyrepo "familycart-go/internal/repository/postgres/family"
	groceryrepo "familycart-go/internal/repository/postgres/grocery"
	userrepo "familycart-go/internal/repository/postgres/user"
	"familycart-go/internal/tokens"
	"familycart-go/internal/transport/httpserver"
	"familycart-go/internal/transport/httpserver/handler"
	"familycart-go/internal/transport/httpserver/middleware"
	"familycart-go/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	mail   *captureMailer
}

type captureMailer struct {
	sent chan capturedMail
}

type capturedMail struct {
	otp string
	to  string
}

func (m *captureMailer) SendVerificationMail(subject, firstName, otp, to string) error {
	m.sent <- capturedMail{otp: otp, to: to}
	return nil
}

func (m *captureMailer) waitOTP(t *testing.T, to string) string {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case mail := <-m.sent:
			if mail.to == to {
				return mail.otp
			}
		case <-deadline:
			t.Fatalf("no mail delivered to %s", to)
		}
	}
}

type testUserLoader struct {
	users *userdomain.Service
}

func (l *testUserLoader) LoadByUUID(ctx context.Context, uuid string) (middleware.User, error) {
	account, err := l.users.GetByUUID(ctx, uuid)
	if err != nil {
		return middleware.User{}, err
	}
	email := ""
	if account.Email != nil {
		email = *account.Email
	}
	return middleware.User{
		ID:            account.ID,
		UUID:          account.UUID,
		Username:      account.Username,
		Email:         email,
		EmailVerified: account.EmailVerified,
	}, nil
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewNop()
	dbConn, err := db.NewPostgres(config.DBConfig{DSN: dsn}, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	users := userrepo.NewPostgres(dbConn)
	families := familyrepo.NewPostgres(dbConn)
	groceries := groceryrepo.NewPostgres(dbConn)

	roles, err := familydomain.ResolveRoles(context.Background(), families)
	if err != nil {
		t.Fatalf("resolve roles: %v", err)
	}

	tokenManager := tokens.NewManager(config.JWTConfig{
		Secret: "e2e-secret",
		TTL:    time.Hour,
		Issuer: "familycart",
	})
	mail := &captureMailer{sent: make(chan capturedMail, 16)}

	userService := userdomain.NewService(users, tokenManager, mail, log, "FamilyCart", 10*time.Minute)
	familyService := familydomain.NewService(families, roles)
	groceryService := grocerydomain.NewService(groceries)

	handlers := handler.New(userService, familyService, groceryService, log)
	router := httpserver.NewRouter(config.Config{}, handlers, tokenManager, &testUserLoader{users: userService}, log)

	server := httptest.NewServer(router)
	return &testEnv{server: server, db: dbConn, mail: mail}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE grocery_items, grocery_lists, family_members, families, email_verifications, users RESTART IDENTITY CASCADE",
	).Error
}

type apiEnvelope struct {
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
	Status  int             `json:"status"`
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload any) (*http.Response, apiEnvelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

// signUpAndVerify walks a fresh user through signup and OTP verification and
// returns the issued access token.
func signUpAndVerify(t *testing.T, env *testEnv, client *http.Client, firstName, email string) string {
	t.Helper()

	resp, _ := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/v1/user/signup", "", map[string]any{
		"first_name": firstName,
		"last_name":  "Tester",
		"email":      email,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}

	otp := env.mail.waitOTP(t, email)

	verifyURL := fmt.Sprintf("%s/api/v1/user/verify_otp?email=%s&otp=%s", env.server.URL, email, otp)
	resp, envBody := requestJSON(t, client, http.MethodGet, verifyURL, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status = %d (%s)", resp.StatusCode, envBody.Message)
	}

	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(envBody.Payload, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" {
		t.Fatal("no token in verify response")
	}
	return session.Token
}

func TestGroceryFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := env.server.Client()

	ownerToken := signUpAndVerify(t, env, client, "Ada", "ada@example.com")

	// Create a family.
	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/v1/family/join", ownerToken, map[string]any{
		"family_name": "Lovelace Household",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("join status = %d (%s)", resp.StatusCode, body.Message)
	}

	var membership struct {
		ID         uint   `json:"id"`
		FamilyCode string `json:"family_code"`
		Role       string `json:"role"`
	}
	if err := json.Unmarshal(body.Payload, &membership); err != nil {
		t.Fatalf("decode membership: %v", err)
	}
	if membership.Role != "owner" {
		t.Fatalf("role = %q, want owner", membership.Role)
	}
	if len(membership.FamilyCode) != 6 {
		t.Fatalf("family code = %q", membership.FamilyCode)
	}

	// A second user joins by code as a member.
	memberToken := signUpAndVerify(t, env, client, "Grace", "grace@example.com")
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/v1/family/join", memberToken, map[string]any{
		"family_code": membership.FamilyCode,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("member join status = %d (%s)", resp.StatusCode, body.Message)
	}

	// Joining twice fails.
	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/v1/family/join", memberToken, map[string]any{
		"family_code": membership.FamilyCode,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second join status = %d, want 400", resp.StatusCode)
	}

	// Owner creates a list under their membership.
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/v1/grocery/grocery-lists", ownerToken, map[string]any{
		"name":              "Weekly",
		"family_membership": membership.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create list status = %d (%s)", resp.StatusCode, body.Message)
	}

	var list struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(body.Payload, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}

	// Lists are pinned to the creating membership, so the co-member's own
	// membership does not grant access.
	listURL := fmt.Sprintf("%s/api/v1/grocery/grocery-lists/%d", env.server.URL, list.ID)
	resp, _ = requestJSON(t, client, http.MethodGet, listURL, memberToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-membership get status = %d, want 403", resp.StatusCode)
	}

	// Owner adds and completes an item.
	itemsURL := fmt.Sprintf("%s/api/v1/grocery/grocery-items?grocery_list_id=%d", env.server.URL, list.ID)
	resp, body = requestJSON(t, client, http.MethodPost, itemsURL, ownerToken, map[string]any{
		"name":          "Milk",
		"quantity":      2,
		"quantity_type": "Liter",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item status = %d (%s)", resp.StatusCode, body.Message)
	}

	var item struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(body.Payload, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	itemURL := fmt.Sprintf("%s/api/v1/grocery/grocery-items/%d", env.server.URL, item.ID)
	resp, body = requestJSON(t, client, http.MethodPatch, itemURL, ownerToken, map[string]any{
		"purchased": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch item status = %d (%s)", resp.StatusCode, body.Message)
	}

	// Missing quantity_type is reported by field name.
	resp, body = requestJSON(t, client, http.MethodPost, itemsURL, ownerToken, map[string]any{
		"name":     "Bread",
		"quantity": 1,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing field status = %d, want 400", resp.StatusCode)
	}

	// Deleting the list removes its items.
	resp, _ = requestJSON(t, client, http.MethodDelete, listURL, ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete list status = %d", resp.StatusCode)
	}

	var itemCount int64
	if err := env.db.Table("grocery_items").Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("items after list delete = %d, want 0", itemCount)
	}
}

func TestOTPReplayRejected(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := env.server.Client()

	resp, _ := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/v1/user/signup", "", map[string]any{
		"first_name": "Ada",
		"last_name":  "Tester",
		"email":      "replay@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	otp := env.mail.waitOTP(t, "replay@example.com")

	verifyURL := fmt.Sprintf("%s/api/v1/user/verify_otp?email=replay@example.com&otp=%s", env.server.URL, otp)
	resp, _ = requestJSON(t, client, http.MethodGet, verifyURL, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first verify status = %d", resp.StatusCode)
	}

	resp, _ = requestJSON(t, client, http.MethodGet, verifyURL, "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("replay verify status = %d, want 400", resp.StatusCode)
	}
}
