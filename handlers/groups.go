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
	"github.com/danielhkuo/angelito/draw"
	"github.com/danielhkuo/angelito/middleware"
	"github.com/danielhkuo/angelito/models"
)

var (
	errMemberNotFound = errors.New("member not found")
	errDrawExists     = errors.New("group already has a draw")
)

type GroupHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewGroupHandler(db *sql.DB, cfg cliparse.Config) *GroupHandler {
	return &GroupHandler{db: db, cfg: cfg}
}

// CreateGroup handles POST /groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.CreatorName = strings.TrimSpace(req.CreatorName)

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.CreatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name is required")
		return
	}
	if !validName(req.CreatorName) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name must be 2-50 characters")
		return
	}
	if req.Budget != nil && *req.Budget < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "budget must not be negative")
		return
	}

	groupID := auth.GenerateID()
	memberID := auth.GenerateID()
	adminKey := auth.GenerateAdminKey(groupID, h.cfg.AdminKeySalt)
	inviteCode := auth.GenerateInviteCode(groupID, h.cfg.InviteSalt)

	memberToken, err := auth.GenerateMemberToken()
	if err != nil {
		slog.Error("failed to generate member token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO angelito_group (id, name, description, budget, event_date, place_name, address, status, invite_code, is_locked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, groupID, req.Name, req.Description, req.Budget, req.EventDate, req.PlaceName, req.Address,
		models.StatusPending, inviteCode, false, now)
	if err != nil {
		slog.Error("failed to insert group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	// The creator is the first participant
	_, err = tx.Exec(`
		INSERT INTO member (id, group_id, name, role, member_token, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, memberID, groupID, req.CreatorName, models.RoleAdmin, memberToken, now)
	if err != nil {
		slog.Error("failed to insert admin member", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	// Link device to group as admin (if X-Device-UUID header present)
	deviceID, err := GetOrCreateDevice(h.db, r)
	if err != nil {
		slog.Warn("failed to get/create device", "error", err)
	} else if deviceID != "" {
		if err := LinkDeviceToGroup(h.db, deviceID, groupID, models.RoleAdmin, &memberID); err != nil {
			slog.Warn("failed to link device to group", "error", err)
		}
	}

	slog.Info("group created", "group_id", groupID, "creator", req.CreatorName)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateGroupResponse{
		GroupID:     groupID,
		AdminKey:    adminKey,
		InviteCode:  inviteCode,
		InviteURL:   h.inviteURL(inviteCode),
		MemberID:    memberID,
		MemberToken: memberToken,
	})
}

func (h *GroupHandler) inviteURL(inviteCode string) string {
	return strings.TrimRight(h.cfg.BaseURL, "/") + "/join/" + inviteCode
}

// GetGroupAdmin handles GET /groups/{id}/admin
func (h *GroupHandler) GetGroupAdmin(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	group, err := loadGroupByID(h.db, groupID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		slog.Error("failed to query group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	members, err := loadMembers(h.db, groupID)
	if err != nil {
		slog.Error("failed to load members", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	describeGroup(&group)
	middleware.JSONResponse(w, http.StatusOK, models.GroupWithMembers{
		Group:   group,
		Members: members,
	})
}

// UpdateGroup handles PATCH /groups/{id}
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	var req models.UpdateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must not be empty")
		return
	}
	if req.Budget != nil && *req.Budget < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "budget must not be negative")
		return
	}

	group, err := loadGroupByID(h.db, groupID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		slog.Error("failed to query group", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Name != nil {
		group.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Budget != nil {
		group.Budget = req.Budget
	}
	if req.EventDate != nil {
		group.EventDate = req.EventDate
	}
	if req.PlaceName != nil {
		group.PlaceName = *req.PlaceName
	}
	if req.Address != nil {
		group.Address = *req.Address
	}

	_, err = h.db.Exec(`
		UPDATE angelito_group
		SET name = $1, description = $2, budget = $3, event_date = $4, place_name = $5, address = $6
		WHERE id = $7
	`, group.Name, group.Description, group.Budget, group.EventDate, group.PlaceName, group.Address, groupID)
	if err != nil {
		slog.Error("failed to update group", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update group")
		return
	}

	slog.Info("group updated", "group_id", groupID)

	describeGroup(&group)
	middleware.JSONResponse(w, http.StatusOK, group)
}

// ToggleLock handles POST /groups/{id}/lock
func (h *GroupHandler) ToggleLock(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	var locked bool
	err := h.db.QueryRow(`
		UPDATE angelito_group SET is_locked = NOT is_locked WHERE id = $1 RETURNING is_locked
	`, groupID).Scan(&locked)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		slog.Error("failed to toggle lock", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("group lock toggled", "group_id", groupID, "locked", locked)

	middleware.JSONResponse(w, http.StatusOK, models.LockResponse{IsLocked: locked})
}

// DeleteGroup handles DELETE /groups/{id}
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	// Members, assignments and device links go with it (ON DELETE CASCADE)
	result, err := h.db.Exec(`DELETE FROM angelito_group WHERE id = $1`, groupID)
	if err != nil {
		slog.Error("failed to delete group", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete group")
		return
	}

	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
		return
	}

	slog.Info("group deleted", "group_id", groupID)

	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember handles DELETE /groups/{id}/members/{memberID}
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	memberID := r.PathValue("memberID")
	if memberID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "member_id is required")
		return
	}

	var role string
	err := h.db.QueryRow(`
		SELECT role FROM member WHERE id = $1 AND group_id = $2
	`, memberID, groupID).Scan(&role)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		slog.Error("failed to query member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if role == models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot remove the group admin")
		return
	}

	status, err := removeMember(h.db, groupID, memberID)
	switch {
	case errors.Is(err, errMemberNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	case errors.Is(err, errDrawExists):
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot remove members after the draw; dissolve it first")
		return
	case err != nil:
		slog.Error("failed to remove member", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove member")
		return
	}

	slog.Info("member removed", "group_id", groupID, "member_id", memberID)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: status})
}

// removeMember deletes a member and recomputes the group status.
// It refuses while the group has a draw and returns the new status.
// The group row is updated before the member row is touched, the same
// order PerformDraw locks them in.
func removeMember(db *sql.DB, groupID, memberID string) (string, error) {
	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRow(`
		UPDATE angelito_group SET status = CASE
			WHEN (SELECT COUNT(*) FROM member WHERE group_id = $1 AND id <> $2) >= $3 THEN CAST($4 AS TEXT)
			ELSE CAST($5 AS TEXT)
		END
		WHERE id = $6 AND status <> $7
		RETURNING status
	`, groupID, memberID, draw.MinMembers, models.StatusReady, models.StatusPending,
		groupID, models.StatusAssigned).Scan(&status)
	if err == sql.ErrNoRows {
		return "", errDrawExists
	}
	if err != nil {
		return "", err
	}

	result, err := tx.Exec(`DELETE FROM member WHERE id = $1 AND group_id = $2`, memberID, groupID)
	if err != nil {
		return "", err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return "", errMemberNotFound
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return status, nil
}
