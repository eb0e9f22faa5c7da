package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/fileserve/internal/repo"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return &UserHandler{Repo: repo.NewUserRepo(db)}, mock, func() { db.Close() }
}

// withURLParam injects a chi URL parameter into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUserHandler_CreateUser(t *testing.T) {
	h, mock, done := newUserHandler(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO users \(username, password_hash\)`).
		WithArgs("bob", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
			AddRow(2, "bob", "hash"))

	body, _ := json.Marshal(map[string]string{"username": "bob", "password": "pw"})
	req := httptest.NewRequest("POST", "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateUser status: got %d, want 201", rr.Code)
	}
	var user struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.ID != 2 || user.Username != "bob" {
		t.Errorf("unexpected user: %+v", user)
	}
	// The hash must never appear in the response.
	if bytes.Contains(rr.Body.Bytes(), []byte("hash")) {
		t.Errorf("response leaks password hash: %s", rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_Conflict(t *testing.T) {
	h, mock, done := newUserHandler(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("bob", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	body, _ := json.Marshal(map[string]string{"username": "bob", "password": "pw"})
	req := httptest.NewRequest("POST", "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("CreateUser status: got %d, want 409", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_Validation(t *testing.T) {
	h, mock, done := newUserHandler(t)
	defer done()

	body, _ := json.Marshal(map[string]string{"username": "", "password": "pw"})
	req := httptest.NewRequest("POST", "/users", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("CreateUser status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	h, mock, done := newUserHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)

	req := withURLParam(httptest.NewRequest("GET", "/users/7", nil), "id", "7")
	rr := httptest.NewRecorder()
	h.GetUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("GetUser status: got %d, want 404", rr.Code)
	}
	var out struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out.Error.Code != 404 {
		t.Errorf("unexpected body: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_GetUser_BadID(t *testing.T) {
	h, mock, done := newUserHandler(t)
	defer done()

	req := withURLParam(httptest.NewRequest("GET", "/users/abc", nil), "id", "abc")
	rr := httptest.NewRecorder()
	h.GetUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("GetUser status: got %d, want 400", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_UpdateUser(t *testing.T) {
	h, mock, done := newUserHandler(t)
	defer done()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs("newname", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
			AddRow(3, "newname", "hash"))

	body, _ := json.Marshal(map[string]string{"username": "newname"})
	req := withURLParam(httptest.NewRequest("PUT", "/users/3", bytes.NewReader(body)), "id", "3")
	rr := httptest.NewRecorder()
	h.UpdateUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("UpdateUser status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_DeleteUser_NotFound(t *testing.T) {
	h, mock, done := newUserHandler(t)
	defer done()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := withURLParam(httptest.NewRequest("DELETE", "/users/9", nil), "id", "9")
	rr := httptest.NewRecorder()
	h.DeleteUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("DeleteUser status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_ListUsers_Empty(t *testing.T) {
	h, mock, done := newUserHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT id, username FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	req := httptest.NewRequest("GET", "/users", nil)
	rr := httptest.NewRecorder()
	h.ListUsers(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("ListUsers status: got %d, want 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("empty list body: got %q, want []", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
