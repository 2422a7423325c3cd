// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/angelito/auth"
	"github.com/danielhkuo/angelito/cliparse"
	"github.com/danielhkuo/angelito/db"
	"github.com/danielhkuo/angelito/models"
)

// SetupTestDB opens a fresh SQLite database in the test's temp dir with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "angelito.db")
	conn, err := db.Open(cliparse.DatabaseSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: cliparse.DatabaseSQLite,
		AdminKeySalt: "test-admin-salt",
		InviteSalt:   "test-invite-salt",
		BaseURL:      "https://angelito.test",
	}
}

// CreateTestGroup creates a group with its admin member.
// Returns the group ID, admin key and invite code.
func CreateTestGroup(t *testing.T, conn *sql.DB, cfg cliparse.Config, adminName string) (groupID, adminKey, inviteCode string) {
	t.Helper()

	groupID, adminKey, inviteCode = insertGroup(t, conn, cfg)
	AddTestMember(t, conn, groupID, adminName, models.RoleAdmin)
	return groupID, adminKey, inviteCode
}

// CreateReadyGroup creates a group whose first name is the admin and the rest are members.
// Returns the group ID, admin key, invite code and member tokens keyed by name.
func CreateReadyGroup(t *testing.T, conn *sql.DB, cfg cliparse.Config, names ...string) (groupID, adminKey, inviteCode string, tokens map[string]string) {
	t.Helper()

	groupID, adminKey, inviteCode = insertGroup(t, conn, cfg)

	tokens = make(map[string]string, len(names))
	for i, name := range names {
		role := models.RoleMember
		if i == 0 {
			role = models.RoleAdmin
		}
		_, token := AddTestMember(t, conn, groupID, name, role)
		tokens[name] = token
	}
	return groupID, adminKey, inviteCode, tokens
}

func insertGroup(t *testing.T, conn *sql.DB, cfg cliparse.Config) (groupID, adminKey, inviteCode string) {
	t.Helper()

	groupID = auth.GenerateID()
	adminKey = auth.GenerateAdminKey(groupID, cfg.AdminKeySalt)
	inviteCode = auth.GenerateInviteCode(groupID, cfg.InviteSalt)

	_, err := conn.Exec(`
		INSERT INTO angelito_group (id, name, description, status, invite_code, is_locked, created_at)
		VALUES ($1, 'Test Group', 'A test group', $2, $3, $4, $5)
	`, groupID, models.StatusPending, inviteCode, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	return groupID, adminKey, inviteCode
}

// AddTestMember inserts a member and refreshes the group status.
// Returns the member ID and member token.
func AddTestMember(t *testing.T, conn *sql.DB, groupID, name, role string) (memberID, token string) {
	t.Helper()

	memberID = auth.GenerateID()
	token, err := auth.GenerateMemberToken()
	if err != nil {
		t.Fatalf("Failed to generate member token: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO member (id, group_id, name, role, member_token, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, memberID, groupID, name, role, token, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	_, err = conn.Exec(`
		UPDATE angelito_group
		SET status = CASE WHEN (SELECT COUNT(*) FROM member WHERE group_id = $1) >= 3 THEN 'ready' ELSE 'pending' END
		WHERE id = $2 AND status <> 'assigned'
	`, groupID, groupID)
	if err != nil {
		t.Fatalf("Failed to update test group status: %v", err)
	}

	return memberID, token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
