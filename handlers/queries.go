// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/angelito/auth"
	"github.com/danielhkuo/angelito/draw"
	"github.com/danielhkuo/angelito/middleware"
	"github.com/danielhkuo/angelito/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

const groupColumns = `id, name, description, budget, event_date, place_name, address,
	status, invite_code, is_locked, draw_id, drawn_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (models.Group, error) {
	var g models.Group
	err := row.Scan(
		&g.ID, &g.Name, &g.Description, &g.Budget, &g.EventDate, &g.PlaceName, &g.Address,
		&g.Status, &g.InviteCode, &g.IsLocked, &g.DrawID, &g.DrawnAt, &g.CreatedAt,
	)
	return g, err
}

func loadGroupByID(q queryer, groupID string) (models.Group, error) {
	return scanGroup(q.QueryRow(`SELECT `+groupColumns+` FROM angelito_group WHERE id = $1`, groupID))
}

func loadGroupByCode(q queryer, inviteCode string) (models.Group, error) {
	return scanGroup(q.QueryRow(`SELECT `+groupColumns+` FROM angelito_group WHERE invite_code = $1`, inviteCode))
}

// loadMembers returns the roster in join order
func loadMembers(q queryer, groupID string) ([]models.Member, error) {
	rows, err := q.Query(`
		SELECT id, group_id, name, role, member_token, joined_at
		FROM member
		WHERE group_id = $1
		ORDER BY joined_at, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.Role, &m.Token, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func memberIDs(members []models.Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

// loadAssignment reads the stored giver → receiver rows of a group
func loadAssignment(q queryer, groupID string) (draw.Assignment, error) {
	rows, err := q.Query(`
		SELECT giver_id, receiver_id FROM assignment WHERE group_id = $1
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignment: %w", err)
	}
	defer rows.Close()

	a := draw.Assignment{}
	for rows.Next() {
		var giver, receiver string
		if err := rows.Scan(&giver, &receiver); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a[giver] = receiver
	}
	return a, rows.Err()
}

func countMembers(q queryer, groupID string) (int, error) {
	var n int
	err := q.QueryRow(`SELECT COUNT(*) FROM member WHERE group_id = $1`, groupID).Scan(&n)
	return n, err
}

// statusFor is the status of a group without a draw
func statusFor(memberCount int) string {
	if memberCount >= draw.MinMembers {
		return models.StatusReady
	}
	return models.StatusPending
}

// describeGroup fills in the human-readable budget and event text
func describeGroup(g *models.Group) {
	if g.Budget != nil {
		g.BudgetText = "$" + humanize.CommafWithDigits(*g.Budget, 2)
	}
	if g.EventDate != nil {
		g.EventText = humanize.Time(*g.EventDate)
	}
}

// requireAdmin checks X-Admin-Key against the {id} path value and returns the group ID
func requireAdmin(w http.ResponseWriter, r *http.Request, salt string) (string, bool) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return "", false
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(groupID, adminKey, salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}
	return groupID, true
}

// groupExists distinguishes "not found" from "wrong state" after a guarded update
func groupExists(q queryer, groupID string) (bool, error) {
	var exists bool
	err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM angelito_group WHERE id = $1)`, groupID).Scan(&exists)
	return exists, err
}

func validName(name string) bool {
	return len(name) >= 2 && len(name) <= 50
}
