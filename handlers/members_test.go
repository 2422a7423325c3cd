// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/angelito/models"
	"github.com/danielhkuo/angelito/testutil"
)

func joinRequest(inviteCode, name string) *http.Request {
	body, _ := json.Marshal(models.JoinGroupRequest{Name: name})
	req := httptest.NewRequest("POST", "/groups/"+inviteCode+"/join", bytes.NewReader(body))
	req.SetPathValue("code", inviteCode)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewMemberHandler(db, cfg)

	groupID, _, inviteCode, _ := testutil.CreateReadyGroup(t, db, cfg, "Alice", "Bob")
	if _, err := db.Exec("UPDATE angelito_group SET budget = $1 WHERE id = $2", 30.0, groupID); err != nil {
		t.Fatalf("Failed to set budget: %v", err)
	}

	tests := []struct {
		name           string
		code           string
		expectedStatus int
	}{
		{"valid invite code", inviteCode, http.StatusOK},
		{"unknown invite code", "nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/groups/"+tt.code, nil)
			req.SetPathValue("code", tt.code)
			w := httptest.NewRecorder()

			handler.GetGroup(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusOK {
				var resp models.GroupWithMembers
				testutil.AssertJSON(t, w, &resp)
				if resp.Group.ID != groupID {
					t.Errorf("Expected group %s, got %s", groupID, resp.Group.ID)
				}
				if resp.Group.BudgetText != "$30" {
					t.Errorf("Expected budget text $30, got %q", resp.Group.BudgetText)
				}
				if len(resp.Members) != 2 {
					t.Errorf("Expected 2 members, got %d", len(resp.Members))
				}
			}
		})
	}
}

func TestGetGroupHidesTokens(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewMemberHandler(db, cfg)

	_, _, inviteCode, tokens := testutil.CreateReadyGroup(t, db, cfg, "Alice", "Bob", "Carol")

	req := httptest.NewRequest("GET", "/groups/"+inviteCode, nil)
	req.SetPathValue("code", inviteCode)
	w := httptest.NewRecorder()
	handler.GetGroup(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	for name, token := range tokens {
		if strings.Contains(body, token) {
			t.Errorf("Public group view leaks the member token of %s", name)
		}
	}
}

func TestJoinGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewMemberHandler(db, cfg)

	groupID, _, inviteCode := testutil.CreateTestGroup(t, db, cfg, "Alice")

	tests := []struct {
		name           string
		code           string
		memberName     string
		expectedStatus int
		expectedGroup  string
	}{
		{"second member", inviteCode, "Bob", http.StatusCreated, models.StatusPending},
		{"third member makes group ready", inviteCode, "Carol", http.StatusCreated, models.StatusReady},
		{"duplicate name", inviteCode, "Bob", http.StatusConflict, ""},
		{"name too short", inviteCode, "X", http.StatusBadRequest, ""},
		{"empty name", inviteCode, "   ", http.StatusBadRequest, ""},
		{"unknown group", "nope", "Dave", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.JoinGroup(w, joinRequest(tt.code, tt.memberName))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated {
				var resp models.JoinGroupResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.GroupID != groupID {
					t.Errorf("Expected group %s, got %s", groupID, resp.GroupID)
				}
				if resp.MemberToken == "" || resp.MemberID == "" {
					t.Error("Expected member_id and member_token")
				}
				if resp.Status != tt.expectedGroup {
					t.Errorf("Expected group status %s, got %s", tt.expectedGroup, resp.Status)
				}
			}
		})
	}
}

func TestJoinLockedGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewMemberHandler(db, cfg)

	groupID, _, inviteCode := testutil.CreateTestGroup(t, db, cfg, "Alice")
	if _, err := db.Exec("UPDATE angelito_group SET is_locked = $1 WHERE id = $2", true, groupID); err != nil {
		t.Fatalf("Failed to lock group: %v", err)
	}

	w := httptest.NewRecorder()
	handler.JoinGroup(w, joinRequest(inviteCode, "Bob"))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestJoinAssignedGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewMemberHandler(db, cfg)

	groupID, _, inviteCode, _ := testutil.CreateReadyGroup(t, db, cfg, "Alice", "Bob", "Carol")
	if _, err := db.Exec("UPDATE angelito_group SET status = 'assigned' WHERE id = $1", groupID); err != nil {
		t.Fatalf("Failed to mark group assigned: %v", err)
	}

	w := httptest.NewRecorder()
	handler.JoinGroup(w, joinRequest(inviteCode, "Dave"))
	testutil.AssertStatus(t, w, http.StatusConflict)

	var count int
	db.QueryRow("SELECT COUNT(*) FROM member WHERE group_id = $1", groupID).Scan(&count)
	if count != 3 {
		t.Errorf("Expected roster to stay at 3, got %d", count)
	}
}

func TestLeaveGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	handler := NewMemberHandler(db, cfg)

	groupID, _, inviteCode, tokens := testutil.CreateReadyGroup(t, db, cfg, "Alice", "Bob", "Carol")

	leave := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/groups/"+inviteCode+"/membership", nil)
		req.SetPathValue("code", inviteCode)
		if token != "" {
			req.Header.Set("X-Member-Token", token)
		}
		w := httptest.NewRecorder()
		handler.LeaveGroup(w, req)
		return w
	}

	t.Run("missing token", func(t *testing.T) {
		testutil.AssertStatus(t, leave(""), http.StatusUnauthorized)
	})

	t.Run("malformed token", func(t *testing.T) {
		testutil.AssertStatus(t, leave("not-a-token"), http.StatusUnauthorized)
	})

	t.Run("admin cannot leave", func(t *testing.T) {
		testutil.AssertStatus(t, leave(tokens["Alice"]), http.StatusBadRequest)
	})

	t.Run("member leaves", func(t *testing.T) {
		w := leave(tokens["Carol"])
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.StatusResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Status != models.StatusPending {
			t.Errorf("Expected pending after leaving, got %s", resp.Status)
		}
	})

	t.Run("token no longer known", func(t *testing.T) {
		testutil.AssertStatus(t, leave(tokens["Carol"]), http.StatusNotFound)
	})

	var count int
	db.QueryRow("SELECT COUNT(*) FROM member WHERE group_id = $1", groupID).Scan(&count)
	if count != 2 {
		t.Errorf("Expected 2 members left, got %d", count)
	}
}
