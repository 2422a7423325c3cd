// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Angelito API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

NewRouterWithGenerator does the same with a caller-supplied draw.Generator,
which tests use to make draws reproducible.

# Endpoints

Health and telemetry:

	GET /health
	GET /metrics

Group management (admin, requires X-Admin-Key):

	POST   /groups                          - Create group
	GET    /groups/{id}/admin               - Group details and roster
	PATCH  /groups/{id}                     - Edit details
	POST   /groups/{id}/lock                - Toggle join lock
	DELETE /groups/{id}                     - Delete group
	DELETE /groups/{id}/members/{memberID}  - Remove a member

Membership (public, uses invite code):

	GET    /groups/{code}             - Group info and roster
	POST   /groups/{code}/join        - Join (returns member_token)
	DELETE /groups/{code}/membership  - Leave (requires X-Member-Token)

Draws:

	POST /groups/{id}/draw            - Draw names (admin)
	GET  /groups/{id}/draw/verify     - Re-check stored draw (admin)
	POST /groups/{id}/dissolve        - Discard draw (admin)
	GET  /groups/{code}/my-assignment - Own receiver (X-Member-Token)

Device management:

	POST /devices/register  - Register device
	GET  /devices/me        - Get device info
	GET  /devices/my-groups - List device's groups

# Handler Initialization

The router creates handler instances with dependency injection:

	groupHandler := handlers.NewGroupHandler(db, cfg)
	memberHandler := handlers.NewMemberHandler(db, cfg)
	drawHandler := handlers.NewDrawHandler(db, cfg, gen, drawMetrics)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

Each router owns its own Prometheus registry.
*/
package router
