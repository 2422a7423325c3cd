// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/angelito/auth"
	"github.com/danielhkuo/angelito/cliparse"
	"github.com/danielhkuo/angelito/middleware"
	"github.com/danielhkuo/angelito/models"
	"golang.org/x/exp/slices"
)

type DeviceHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDeviceHandler(db *sql.DB, cfg cliparse.Config) *DeviceHandler {
	return &DeviceHandler{db: db, cfg: cfg}
}

// Register handles POST /devices/register
// Returns the device's id, creating the record on first contact. A device
// first seen through CreateGroup or JoinGroup defaults to web, so
// registering again overwrites the platform.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	deviceUUID, ok := deviceHeader(w, r)
	if !ok {
		return
	}

	var req models.RegisterDeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !isValidPlatform(req.Platform) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "platform must be one of: ios, macos, android, web")
		return
	}

	var existingID string
	err := h.db.QueryRow(`
		UPDATE device SET platform = $1, last_seen_at = $2
		WHERE device_uuid = $3
		RETURNING id
	`, req.Platform, time.Now(), deviceUUID).Scan(&existingID)

	if err == nil {
		slog.Info("device registered", "device_id", existingID, "new", false)
		middleware.JSONResponse(w, http.StatusOK, models.RegisterDeviceResponse{
			DeviceID: existingID,
			IsNew:    false,
		})
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to update device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	deviceID, err := insertDevice(h.db, deviceUUID, req.Platform)
	if err != nil {
		slog.Error("failed to insert device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register device")
		return
	}

	slog.Info("device registered", "device_id", deviceID, "new", true, "platform", req.Platform)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterDeviceResponse{
		DeviceID: deviceID,
		IsNew:    true,
	})
}

// GetMe handles GET /devices/me
func (h *DeviceHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	deviceUUID, ok := deviceHeader(w, r)
	if !ok {
		return
	}

	deviceID, err := touchDevice(h.db, deviceUUID)
	var device models.DeviceInfo
	if err == nil {
		err = h.db.QueryRow(`
			SELECT id, platform, created_at, last_seen_at
			FROM device
			WHERE id = $1
		`, deviceID).Scan(&device.ID, &device.Platform, &device.CreatedAt, &device.LastSeenAt)
	}

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, device)
}

// GetMyGroups handles GET /devices/my-groups
// Returns groups this device created or joined
func (h *DeviceHandler) GetMyGroups(w http.ResponseWriter, r *http.Request) {
	deviceUUID, ok := deviceHeader(w, r)
	if !ok {
		return
	}

	deviceID, err := touchDevice(h.db, deviceUUID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Member names come from the join so no query runs while rows are open
	rows, err := h.db.Query(`
		SELECT
			g.id,
			g.name,
			g.status,
			g.invite_code,
			dg.role,
			dg.member_id,
			m.name,
			dg.linked_at,
			(SELECT COUNT(*) FROM member c WHERE c.group_id = g.id) AS member_count
		FROM device_group dg
		JOIN angelito_group g ON dg.group_id = g.id
		LEFT JOIN member m ON m.id = dg.member_id
		WHERE dg.device_id = $1
		ORDER BY dg.linked_at DESC
	`, deviceID)

	if err != nil {
		slog.Error("failed to query device groups", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	groups := []models.DeviceGroupSummary{}
	for rows.Next() {
		var summary models.DeviceGroupSummary
		var memberID, memberName sql.NullString

		if err := rows.Scan(
			&summary.GroupID,
			&summary.Name,
			&summary.Status,
			&summary.InviteCode,
			&summary.Role,
			&memberID,
			&memberName,
			&summary.LinkedAt,
			&summary.MemberCount,
		); err != nil {
			slog.Error("failed to scan group", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		if memberID.Valid {
			summary.MemberID = &memberID.String
		}
		if memberName.Valid {
			summary.MemberName = &memberName.String
		}

		groups = append(groups, summary)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate device groups", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GetMyGroupsResponse{
		Groups: groups,
	})
}

// GetOrCreateDevice resolves the X-Device-UUID header to a device id,
// creating a web device if the UUID is new. Requests without the header
// yield an empty id and no error.
func GetOrCreateDevice(db *sql.DB, r *http.Request) (string, error) {
	deviceUUID := r.Header.Get("X-Device-UUID")
	if deviceUUID == "" {
		return "", nil
	}

	deviceID, err := touchDevice(db, deviceUUID)
	if err != sql.ErrNoRows {
		return deviceID, err
	}

	// The real platform arrives later through /devices/register
	return insertDevice(db, deviceUUID, models.PlatformWeb)
}

func deviceHeader(w http.ResponseWriter, r *http.Request) (string, bool) {
	deviceUUID := r.Header.Get("X-Device-UUID")
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return "", false
	}
	return deviceUUID, true
}

// touchDevice bumps last_seen_at and returns the device id, or sql.ErrNoRows.
func touchDevice(db *sql.DB, deviceUUID string) (string, error) {
	var deviceID string
	err := db.QueryRow(`
		UPDATE device SET last_seen_at = $1 WHERE device_uuid = $2 RETURNING id
	`, time.Now(), deviceUUID).Scan(&deviceID)
	return deviceID, err
}

func insertDevice(db *sql.DB, deviceUUID, platform string) (string, error) {
	deviceID := auth.GenerateID()
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO device (id, device_uuid, platform, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, deviceID, deviceUUID, platform, now, now)
	if err != nil {
		return "", err
	}
	return deviceID, nil
}

// LinkDeviceToGroup creates an association between a device and a group
func LinkDeviceToGroup(db *sql.DB, deviceID, groupID, role string, memberID *string) error {
	if deviceID == "" {
		return nil
	}

	var mid sql.NullString
	if memberID != nil {
		mid = sql.NullString{String: *memberID, Valid: true}
	}

	// Re-linking never demotes an admin
	_, err := db.Exec(`
		INSERT INTO device_group (device_id, group_id, member_id, role, linked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (device_id, group_id) DO UPDATE SET
			role = CASE WHEN device_group.role = 'admin' THEN 'admin' ELSE EXCLUDED.role END,
			member_id = COALESCE(device_group.member_id, EXCLUDED.member_id)
	`, deviceID, groupID, mid, role, time.Now())

	return err
}

var platforms = []string{models.PlatformIOS, models.PlatformMacOS, models.PlatformAndroid, models.PlatformWeb}

func isValidPlatform(platform string) bool {
	return slices.Contains(platforms, platform)
}
