// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/angelito/auth"
	"github.com/danielhkuo/angelito/cliparse"
	"github.com/danielhkuo/angelito/draw"
	"github.com/danielhkuo/angelito/metrics"
	"github.com/danielhkuo/angelito/middleware"
	"github.com/danielhkuo/angelito/models"
)

type DrawHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	gen     *draw.Generator
	metrics *metrics.DrawMetrics
}

func NewDrawHandler(db *sql.DB, cfg cliparse.Config, gen *draw.Generator, m *metrics.DrawMetrics) *DrawHandler {
	return &DrawHandler{db: db, cfg: cfg, gen: gen, metrics: m}
}

// PerformDraw handles POST /groups/{id}/draw
// Pass ?redraw=true to replace an existing draw.
func (h *DrawHandler) PerformDraw(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}
	redraw := r.URL.Query().Get("redraw") == "true"

	drawID, err := auth.GenerateDrawID(16)
	if err != nil {
		slog.Error("failed to generate draw ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to perform draw")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Claim the group first so concurrent draws cannot both succeed
	drawnAt := time.Now()
	var result sql.Result
	if redraw {
		result, err = tx.Exec(`
			UPDATE angelito_group SET status = $1, draw_id = $2, drawn_at = $3
			WHERE id = $4
		`, models.StatusAssigned, drawID, drawnAt, groupID)
	} else {
		result, err = tx.Exec(`
			UPDATE angelito_group SET status = $1, draw_id = $2, drawn_at = $3
			WHERE id = $4 AND status <> $5
		`, models.StatusAssigned, drawID, drawnAt, groupID, models.StatusAssigned)
	}
	if err != nil {
		slog.Error("failed to claim group for draw", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if n, _ := result.RowsAffected(); n == 0 {
		exists, err := groupExists(tx, groupID)
		if err != nil {
			slog.Error("failed to query group", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
			return
		}
		middleware.ErrorResponse(w, http.StatusConflict, "Names have already been drawn")
		return
	}

	members, err := loadMembers(tx, groupID)
	if err != nil {
		slog.Error("failed to load members", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	ids := memberIDs(members)

	assignment, outcome, err := h.gen.Draw(ids)
	if errors.Is(err, draw.ErrInvalidInput) {
		h.metrics.ObserveRejected()
		middleware.ErrorResponse(w, http.StatusBadRequest, "At least 3 participants required")
		return
	}
	if err != nil {
		slog.Error("draw failed", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to perform draw")
		return
	}

	if err := draw.Validate(assignment); err != nil {
		slog.Error("generated assignment is invalid", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to perform draw")
		return
	}
	if err := draw.Covers(assignment, ids); err != nil {
		slog.Error("generated assignment does not cover roster", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to perform draw")
		return
	}

	if _, err := tx.Exec(`DELETE FROM assignment WHERE group_id = $1`, groupID); err != nil {
		slog.Error("failed to clear previous assignment", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for _, giver := range ids {
		_, err := tx.Exec(`
			INSERT INTO assignment (group_id, giver_id, receiver_id, draw_id)
			VALUES ($1, $2, $3, $4)
		`, groupID, giver, assignment[giver], drawID)
		if err != nil {
			slog.Error("failed to insert assignment", "error", err, "group_id", groupID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save draw")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit draw", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save draw")
		return
	}

	h.metrics.ObserveDraw(outcome)

	slog.Info("names drawn",
		"group_id", groupID,
		"draw_id", drawID,
		"participants", len(ids),
		"attempts", outcome.Attempts,
		"fallback", outcome.Fallback,
		"redraw", redraw)

	middleware.JSONResponse(w, http.StatusOK, models.DrawResponse{
		DrawID:       drawID,
		DrawnAt:      drawnAt,
		Participants: len(ids),
		Status:       models.StatusAssigned,
	})
}

// GetMyAssignment handles GET /groups/{code}/my-assignment
// Only the giver learns their receiver
func (h *DrawHandler) GetMyAssignment(w http.ResponseWriter, r *http.Request) {
	inviteCode := r.PathValue("code")
	if inviteCode == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invite code is required")
		return
	}

	member, ok := lookupMember(w, r, h.db, inviteCode)
	if !ok {
		return
	}

	var resp models.MyAssignmentResponse
	err := h.db.QueryRow(`
		SELECT a.group_id, a.draw_id, a.receiver_id, rcv.name
		FROM assignment a
		JOIN member rcv ON rcv.id = a.receiver_id
		WHERE a.group_id = $1 AND a.giver_id = $2
	`, member.GroupID, member.ID).Scan(&resp.GroupID, &resp.DrawID, &resp.ReceiverID, &resp.ReceiverName)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusConflict, "Names have not been drawn yet")
		return
	}
	if err != nil {
		slog.Error("failed to query assignment", "error", err, "group_id", member.GroupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// DissolveDraw handles POST /groups/{id}/dissolve
func (h *DrawHandler) DissolveDraw(w http.ResponseWriter, r *http.Request) {
	groupID, ok := requireAdmin(w, r, h.cfg.AdminKeySalt)
	if !ok {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM assignment WHERE group_id = $1`, groupID); err != nil {
		slog.Error("failed to delete assignment", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	count, err := countMembers(tx, groupID)
	if err != nil {
		slog.Error("failed to count members", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	status := statusFor(count)
	result, err := tx.Exec(`
		UPDATE angelito_group SET status = $1, draw_id = NULL, drawn_at = NULL
		WHERE id = $2 AND status = $3
	`, status, groupID, models.StatusAssigned)
	if err != nil {
		slog.Error("failed to reset group status", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if n, _ := result.RowsAffected(); n == 0 {
		exists, err := groupExists(tx, groupID)
		if err != nil {
			slog.Error("failed to query group", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusNotFound, "Group not found")
			return
		}
		middleware.ErrorResponse(w, http.StatusConflict, "Group has no draw to dissolve")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit dissolve", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("draw dissolved", "group_id", groupID, "status", status)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: status})
}

// VerifyDraw handles GET /groups/{id}/draw/verify
// Re-checks the stored mapping against the current roster
func (h *DrawHandler) VerifyDraw(w http.ResponseWriter, r *http.Request) {
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

	if group.DrawID == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Names have not been drawn yet")
		return
	}

	assignment, err := loadAssignment(h.db, groupID)
	if err != nil {
		slog.Error("failed to load assignment", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	members, err := loadMembers(h.db, groupID)
	if err != nil {
		slog.Error("failed to load members", "error", err, "group_id", groupID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.VerifyDrawResponse{
		DrawID:       *group.DrawID,
		Valid:        true,
		Participants: len(assignment),
	}

	err = draw.Validate(assignment)
	if err == nil {
		err = draw.Covers(assignment, memberIDs(members))
	}
	if err != nil {
		resp.Valid = false
		resp.Reason = err.Error()
		slog.Warn("stored draw failed verification", "group_id", groupID, "reason", err)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
