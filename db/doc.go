// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the configured database type and pings:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

PostgreSQL goes through lib/pq. SQLite goes through modernc.org/sqlite with
foreign keys and a busy timeout switched on for every pooled connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on both engines.

# Tables

  - angelito_group: Group metadata, invite code, lock flag and draw state
  - member: Participants with their secret member token
  - assignment: Giver → receiver rows of the current draw
  - device: Registered devices
  - device_group: Links devices to groups

# Relationships

	angelito_group 1──* member
	angelito_group 1──* assignment
	member 1──1 assignment (as giver and as receiver)
	device *──* angelito_group (via device_group)

All foreign keys use ON DELETE CASCADE, except device_group.member_id which
is set to NULL when the member leaves.

# Constraints

assignment has PRIMARY KEY (group_id, giver_id), UNIQUE (group_id,
receiver_id) and CHECK (giver_id <> receiver_id), so the store itself
refuses a mapping in which someone gives twice, receives twice, or draws
themselves.

# Errors

IsUniqueViolation recognizes duplicate-key errors from either driver:

	if db.IsUniqueViolation(err) {
		// 409 Conflict
	}
*/
package db
