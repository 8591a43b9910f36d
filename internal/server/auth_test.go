package server

import (
	"encoding/json"
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/axpress-labs/scholard/internal/store"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &AuthHandler{Store: &store.Store{DB: db}, Secret: []byte("test-secret")}, mock
}

func TestSignupCreatesUser(t *testing.T) {
	a, mock := newAuthHandler(t)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("alice@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := doJSON(t, a.signup, http.MethodPost, "/api/auth/signup", `{"email":"alice@example.com","password":"longenough"}`)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSignupShortPassword(t *testing.T) {
	a, _ := newAuthHandler(t)
	_, err := doJSON(t, a.signup, http.MethodPost, "/api/auth/signup", `{"email":"a@b.c","password":"short"}`)
	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", code)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	a, mock := newAuthHandler(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	mock.ExpectQuery(`SELECT id, password_hash FROM users WHERE email=\$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow("user-1", string(hash)))

	rec, err := doJSON(t, a.login, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"longenough"}`)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	parsed, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) { return a.Secret, nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not validate: %v", err)
	}
	if sub, _ := parsed.Claims.GetSubject(); sub != "user-1" {
		t.Fatalf("subject: %q", sub)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	a, mock := newAuthHandler(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, password_hash FROM users WHERE email=\$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow("user-1", string(hash)))

	_, err := doJSON(t, a.login, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrongpassword"}`)
	if code := httpCode(t, err); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", code)
	}
}
