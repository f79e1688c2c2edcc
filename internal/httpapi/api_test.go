// internal/httpapi/api_test.go
//
// Controller tests: bearer-token gate plus the content list route running
// the full filter → sort → paginate pipeline over a sqlmock-backed pool.
//
// Run: go test ./internal/httpapi -v

package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"

	"github.com/circlehq/console/internal/chat"
	"github.com/circlehq/console/internal/content"
)

const testSecret = "unit-test-secret"

func newTestAPI(t *testing.T) (*API, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	sdb := sqlx.NewDb(db, "mysql")
	api := New(sdb, chat.NewService(sdb), testSecret)
	return api, mock, func() { sdb.Close() }
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: sub})
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func TestMissingTokenIsRejected(t *testing.T) {
	api, _, done := newTestAPI(t)
	defer done()

	req := httptest.NewRequest(http.MethodGet, "/content/", nil)
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestListContentRunsPipeline(t *testing.T) {
	api, mock, done := newTestAPI(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, title, slug, type, status, created_at, updated_at FROM content`,
	)).WillReturnRows(sqlmock.NewRows(
		[]string{"id", "title", "slug", "type", "status", "created_at", "updated_at"}).
		AddRow("1", "Alpha", "alpha", "marketing", "draft", now, now.Add(-time.Hour)).
		AddRow("2", "Beta", "beta", "news", "published", now, now))

	req := httptest.NewRequest(http.MethodGet,
		"/content/?status=published&sortBy=updatedAt&sortDirection=desc", nil)
	req.Header.Set("Authorization", bearer(t, "alice"))
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Items      []content.Record   `json:"items"`
		Pagination content.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ID != "2" {
		t.Fatalf("pipeline output wrong: %+v", body.Items)
	}
	if body.Pagination.Total != 1 || body.Pagination.HasNext {
		t.Fatalf("pagination wrong: %+v", body.Pagination)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestNonMemberCannotSendMessage(t *testing.T) {
	api, mock, done := newTestAPI(t)
	defer done()

	nowRows := sqlmock.NewRows(
		[]string{"id", "group_id", "name", "type", "created_at", "updated_at"}).
		AddRow("r1", "g1", "General", "group", time.Now().UTC(), time.Now().UTC())
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, group_id, name, type, created_at, updated_at FROM room WHERE id = ? LIMIT 1`,
	)).WithArgs("r1").WillReturnRows(nowRows)
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT role FROM group_member WHERE group_id = ? AND user_id = ? LIMIT 1`,
	)).WithArgs("g1", "mallory").
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	req := httptest.NewRequest(http.MethodPost, "/rooms/r1/messages/",
		strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Authorization", bearer(t, "mallory"))
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d: %s", rec.Code, rec.Body.String())
	}
}
