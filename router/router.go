// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/angelito/cliparse"
	"github.com/danielhkuo/angelito/draw"
	"github.com/danielhkuo/angelito/handlers"
	"github.com/danielhkuo/angelito/metrics"
	"github.com/danielhkuo/angelito/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	return NewRouterWithGenerator(db, cfg, draw.NewGenerator())
}

// NewRouterWithGenerator lets callers control the randomness behind draws
func NewRouterWithGenerator(db *sql.DB, cfg cliparse.Config, gen *draw.Generator) *http.ServeMux {
	mux := http.NewServeMux()

	drawMetrics := metrics.NewDrawMetrics()

	// Initialize handlers
	groupHandler := handlers.NewGroupHandler(db, cfg)
	memberHandler := handlers.NewMemberHandler(db, cfg)
	drawHandler := handlers.NewDrawHandler(db, cfg, gen, drawMetrics)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Group management (admin operations)
	mux.HandleFunc("POST /groups", middleware.WithLogging(groupHandler.CreateGroup))
	mux.HandleFunc("GET /groups/{id}/admin", middleware.WithLogging(groupHandler.GetGroupAdmin))
	mux.HandleFunc("PATCH /groups/{id}", middleware.WithLogging(groupHandler.UpdateGroup))
	mux.HandleFunc("POST /groups/{id}/lock", middleware.WithLogging(groupHandler.ToggleLock))
	mux.HandleFunc("DELETE /groups/{id}", middleware.WithLogging(groupHandler.DeleteGroup))
	mux.HandleFunc("DELETE /groups/{id}/members/{memberID}", middleware.WithLogging(groupHandler.RemoveMember))

	// Membership (public, via invite code)
	mux.HandleFunc("GET /groups/{code}", middleware.WithLogging(memberHandler.GetGroup))
	mux.HandleFunc("POST /groups/{code}/join", middleware.WithLogging(memberHandler.JoinGroup))
	mux.HandleFunc("DELETE /groups/{code}/membership", middleware.WithLogging(memberHandler.LeaveGroup))

	// Draws
	mux.HandleFunc("POST /groups/{id}/draw", middleware.WithLogging(drawHandler.PerformDraw))
	mux.HandleFunc("GET /groups/{id}/draw/verify", middleware.WithLogging(drawHandler.VerifyDraw))
	mux.HandleFunc("POST /groups/{id}/dissolve", middleware.WithLogging(drawHandler.DissolveDraw))
	mux.HandleFunc("GET /groups/{code}/my-assignment", middleware.WithLogging(drawHandler.GetMyAssignment))

	// Device management
	mux.HandleFunc("POST /devices/register", middleware.WithLogging(deviceHandler.Register))
	mux.HandleFunc("GET /devices/me", middleware.WithLogging(deviceHandler.GetMe))
	mux.HandleFunc("GET /devices/my-groups", middleware.WithLogging(deviceHandler.GetMyGroups))

	// Draw telemetry
	mux.Handle("GET /metrics", drawMetrics.Handler())

	// Root endpoint, exact match only
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("angelito API v1"))
	})

	return mux
}
