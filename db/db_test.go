// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open("sqlite", filepath.Join(t.TempDir(), "angelito.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, CreateSchema(conn))
	return conn
}

func insertGroup(t *testing.T, conn *sql.DB, id string) {
	t.Helper()
	_, err := conn.Exec(`
		INSERT INTO angelito_group (id, name, invite_code, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, "Oficina", "code-"+id, time.Now())
	require.NoError(t, err)
}

func insertMember(t *testing.T, conn *sql.DB, groupID, id, name string) {
	t.Helper()
	_, err := conn.Exec(`
		INSERT INTO member (id, group_id, name, role, member_token, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, groupID, name, "member", "token-"+id, time.Now())
	require.NoError(t, err)
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	require.NoError(t, CreateSchema(conn))
	require.NoError(t, CreateSchema(conn))
}

func TestOpen_UnsupportedType(t *testing.T) {
	conn, err := Open("mysql", "whatever")
	require.Error(t, err)
	require.Nil(t, conn)
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain path", "angelito.db", "angelito.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"},
		{"existing query", "file:a.db?mode=rwc", "file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"},
		{"already configured", "a.db?_pragma=foreign_keys(0)&_pragma=busy_timeout(10)&_time_format=sqlite", "a.db?_pragma=foreign_keys(0)&_pragma=busy_timeout(10)&_time_format=sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sqliteDSN(tt.in))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn := openTestDB(t)
	insertGroup(t, conn, "g1")
	insertMember(t, conn, "g1", "m1", "Ana")

	// Same name twice in one group
	_, err := conn.Exec(`
		INSERT INTO member (id, group_id, name, role, member_token, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, "m2", "g1", "Ana", "member", "token-m2", time.Now())
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))

	require.False(t, IsUniqueViolation(nil))
	require.False(t, IsUniqueViolation(errors.New("connection refused")))
}

func TestAssignmentConstraints(t *testing.T) {
	conn := openTestDB(t)
	insertGroup(t, conn, "g1")
	insertMember(t, conn, "g1", "a", "Ana")
	insertMember(t, conn, "g1", "b", "Beto")
	insertMember(t, conn, "g1", "c", "Carla")

	insert := func(giver, receiver string) error {
		_, err := conn.Exec(`
			INSERT INTO assignment (group_id, giver_id, receiver_id, draw_id)
			VALUES ($1, $2, $3, $4)
		`, "g1", giver, receiver, "d1")
		return err
	}

	require.NoError(t, insert("a", "b"))
	require.Error(t, insert("b", "b"), "self assignment must be refused")
	require.True(t, IsUniqueViolation(insert("a", "c")), "a gives twice")
	require.True(t, IsUniqueViolation(insert("c", "b")), "b receives twice")
}

func TestDeleteGroupCascades(t *testing.T) {
	conn := openTestDB(t)
	insertGroup(t, conn, "g1")
	insertMember(t, conn, "g1", "a", "Ana")
	insertMember(t, conn, "g1", "b", "Beto")

	_, err := conn.Exec(`
		INSERT INTO assignment (group_id, giver_id, receiver_id, draw_id)
		VALUES ($1, $2, $3, $4)
	`, "g1", "a", "b", "d1")
	require.NoError(t, err)

	_, err = conn.Exec(`DELETE FROM angelito_group WHERE id = $1`, "g1")
	require.NoError(t, err)

	var members, assignments int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM member`).Scan(&members))
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM assignment`).Scan(&assignments))
	require.Zero(t, members)
	require.Zero(t, assignments)
}
