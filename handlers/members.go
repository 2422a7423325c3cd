// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/angelito/auth"
	"github.com/danielhkuo/angelito/cliparse"
	"github.com/danielhkuo/angelito/db"
	"github.com/danielhkuo/angelito/middleware"
	"github.com/danielhkuo/angelito/models"
)

type MemberHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewMemberHandler(db *sql.DB, cfg cliparse.Config) *MemberHandler {
	return &MemberHandler{db: db, cfg: cfg}
}

// GetGroup handles GET /groups/{code}
// Public view of a group and its roster; never includes assignments
func (h *MemberHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	inviteCode := r.PathValue("code")
	if inviteCode == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invite code is required")
		return
	}

	group, err := loadGroupByCode(h.db, inviteCode)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		slog.Error("failed to query group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	members, err := loadMembers(h.db, group.ID)
	if err != nil {
		slog.Error("failed to load members", "error", err, "group_id", group.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	describeGroup(&group)
	middleware.JSONResponse(w, http.StatusOK, models.GroupWithMembers{
		Group:   group,
		Members: members,
	})
}

// JoinGroup handles POST /groups/{code}/join
func (h *MemberHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	inviteCode := r.PathValue("code")
	if inviteCode == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invite code is required")
		return
	}

	var req models.JoinGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validName(req.Name) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 2-50 characters")
		return
	}

	group, err := loadGroupByCode(h.db, inviteCode)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		slog.Error("failed to query group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if group.Status == models.StatusAssigned {
		middleware.ErrorResponse(w, http.StatusConflict, "Names have already been drawn")
		return
	}
	if group.IsLocked {
		middleware.ErrorResponse(w, http.StatusConflict, "Group is locked")
		return
	}

	memberToken, err := auth.GenerateMemberToken()
	if err != nil {
		slog.Error("failed to generate member token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}
	memberID := auth.GenerateID()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// UNIQUE (group_id, name) rejects duplicates
	_, err = tx.Exec(`
		INSERT INTO member (id, group_id, name, role, member_token, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, memberID, group.ID, req.Name, models.RoleMember, memberToken, time.Now())
	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Name already taken")
			return
		}
		slog.Error("failed to insert member", "error", err, "group_id", group.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}

	count, err := countMembers(tx, group.ID)
	if err != nil {
		slog.Error("failed to count members", "error", err, "group_id", group.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// The group may have been drawn or locked since it was read
	status := statusFor(count)
	result, err := tx.Exec(`
		UPDATE angelito_group SET status = $1
		WHERE id = $2 AND status <> $3 AND is_locked = $4
	`, status, group.ID, models.StatusAssigned, false)
	if err != nil {
		slog.Error("failed to update group status", "error", err, "group_id", group.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Group is no longer accepting members")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit join", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join group")
		return
	}

	// Link device to group as member (if X-Device-UUID header present)
	deviceID, err := GetOrCreateDevice(h.db, r)
	if err != nil {
		slog.Warn("failed to get/create device", "error", err)
	} else if deviceID != "" {
		if err := LinkDeviceToGroup(h.db, deviceID, group.ID, models.RoleMember, &memberID); err != nil {
			slog.Warn("failed to link device to group", "error", err)
		}
	}

	slog.Info("member joined", "group_id", group.ID, "member", req.Name, "members", count)

	middleware.JSONResponse(w, http.StatusCreated, models.JoinGroupResponse{
		GroupID:     group.ID,
		MemberID:    memberID,
		MemberToken: memberToken,
		Status:      status,
	})
}

// LeaveGroup handles DELETE /groups/{code}/membership
func (h *MemberHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	inviteCode := r.PathValue("code")
	if inviteCode == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invite code is required")
		return
	}

	member, ok := lookupMember(w, r, h.db, inviteCode)
	if !ok {
		return
	}

	if member.Role == models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "The group admin cannot leave; delete the group instead")
		return
	}

	status, err := removeMember(h.db, member.GroupID, member.ID)
	switch {
	case errors.Is(err, errMemberNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	case errors.Is(err, errDrawExists):
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot leave after the draw")
		return
	case err != nil:
		slog.Error("failed to remove member", "error", err, "group_id", member.GroupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to leave group")
		return
	}

	slog.Info("member left", "group_id", member.GroupID, "member_id", member.ID)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: status})
}

// lookupMember resolves X-Member-Token within the group behind inviteCode
func lookupMember(w http.ResponseWriter, r *http.Request, conn *sql.DB, inviteCode string) (models.Member, bool) {
	token := r.Header.Get("X-Member-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Member-Token header required")
		return models.Member{}, false
	}
	if err := auth.ValidateMemberToken(token); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid member token")
		return models.Member{}, false
	}

	var m models.Member
	err := conn.QueryRow(`
		SELECT m.id, m.group_id, m.name, m.role, m.joined_at
		FROM member m
		JOIN angelito_group g ON g.id = m.group_id
		WHERE g.invite_code = $1 AND m.member_token = $2
	`, inviteCode, token).Scan(&m.ID, &m.GroupID, &m.Name, &m.Role, &m.JoinedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found in this group")
		return models.Member{}, false
	}
	if err != nil {
		slog.Error("failed to query member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Member{}, false
	}
	return m, true
}
