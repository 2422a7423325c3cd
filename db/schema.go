// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The DDL runs unchanged on PostgreSQL and SQLite.
const schema = `
-- Groups
CREATE TABLE IF NOT EXISTS angelito_group (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    budget REAL CHECK (budget IS NULL OR budget >= 0),
    event_date TIMESTAMP,
    place_name TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'ready', 'assigned')),
    invite_code TEXT NOT NULL UNIQUE,
    is_locked BOOLEAN NOT NULL DEFAULT FALSE,
    draw_id TEXT,
    drawn_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_group_invite_code ON angelito_group(invite_code);
CREATE INDEX IF NOT EXISTS idx_group_status ON angelito_group(status);

-- Members
CREATE TABLE IF NOT EXISTS member (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES angelito_group(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'member')),
    member_token TEXT NOT NULL UNIQUE,
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (group_id, name)
);

CREATE INDEX IF NOT EXISTS idx_member_group_id ON member(group_id);

-- Assignments (one row per giver of the current draw)
CREATE TABLE IF NOT EXISTS assignment (
    group_id TEXT NOT NULL REFERENCES angelito_group(id) ON DELETE CASCADE,
    giver_id TEXT NOT NULL REFERENCES member(id) ON DELETE CASCADE,
    receiver_id TEXT NOT NULL REFERENCES member(id) ON DELETE CASCADE,
    draw_id TEXT NOT NULL,
    PRIMARY KEY (group_id, giver_id),
    UNIQUE (group_id, receiver_id),
    CHECK (giver_id <> receiver_id)
);

-- Devices
CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    device_uuid TEXT NOT NULL UNIQUE,
    platform TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_device_uuid ON device(device_uuid);

CREATE TABLE IF NOT EXISTS device_group (
    device_id TEXT NOT NULL REFERENCES device(id) ON DELETE CASCADE,
    group_id TEXT NOT NULL REFERENCES angelito_group(id) ON DELETE CASCADE,
    member_id TEXT REFERENCES member(id) ON DELETE SET NULL,
    role TEXT NOT NULL DEFAULT 'member',
    linked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (device_id, group_id)
);

CREATE INDEX IF NOT EXISTS idx_device_group_device ON device_group(device_id);
`
