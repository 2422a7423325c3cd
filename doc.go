// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Angelito API server.

Angelito runs Secret Santa style gift exchanges: an organizer creates a
group, friends join through an invite code, and one draw assigns every
participant exactly one other participant to give a gift to. Nobody draws
themselves and nobody is drawn twice.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:angelito.db ADMIN_KEY_SALT=... INVITE_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is read first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - INVITE_SALT (-invite-salt): Secret for invite code generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL (-base-url): Public URL used to build invite links

# Architecture

The server uses a handler-based architecture with dependency injection:

  - draw: Assignment generation and validation
  - handlers: HTTP request handlers (groups, members, draws, devices)
  - router: Route definitions using Go 1.22+ routing
  - metrics: Prometheus collectors for draws
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: IDs, admin keys, member tokens, invite codes
  - db: Connection, schema creation, constraint errors
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
