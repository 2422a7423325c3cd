// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Angelito API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - GroupHandler: Group lifecycle (create, edit, lock, delete, remove members)
  - MemberHandler: Public group view, joining and leaving
  - DrawHandler: Drawing names, reading your own assignment, verification
  - DeviceHandler: Device registration and group history

Handlers are created via constructor functions that accept *sql.DB and Config:

	groupHandler := handlers.NewGroupHandler(db, cfg)

DrawHandler also takes the draw.Generator and the metrics it reports to:

	drawHandler := handlers.NewDrawHandler(db, cfg, draw.NewGenerator(), metrics.NewDrawMetrics())

# Group Lifecycle

Groups move through three states: pending → ready → assigned

	POST /groups                 → CreateGroup (returns admin_key, invite_code)
	POST /groups/{code}/join     → JoinGroup (ready from the third member)
	DELETE /groups/{code}/membership → LeaveGroup (X-Member-Token)
	POST /groups/{id}/draw       → PerformDraw (assigned)
	POST /groups/{id}/dissolve   → DissolveDraw (back to pending or ready)

Admin operations require the X-Admin-Key header.

# Draws

PerformDraw claims the group with a conditional status update, runs the
generator over the roster in join order, checks the result with
draw.Validate and draw.Covers, and stores one assignment row per giver,
all in a single transaction. The admin never sees the mapping. A second
draw on an assigned group is a 409 unless the request carries
?redraw=true. Joining, leaving and member removal are refused while a
draw exists.

Members read their own receiver with the X-Member-Token they got when
joining:

	GET /groups/{code}/my-assignment → GetMyAssignment

# Device Tracking

Optional device tracking for native apps:

	POST /devices/register  → Register
	GET /devices/me         → GetMe
	GET /devices/my-groups  → GetMyGroups

Device operations require the X-Device-UUID header.
*/
package handlers
