// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - InviteSalt: Secret for invite code generation (required)
  - BaseURL: Public URL used to build invite links

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-base-url      Public base URL
	-env           Dotenv file (default .env, ignored when missing)
	-admin-salt    Admin key salt
	-invite-salt   Invite code salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	BASE_URL       → -base-url
	ADMIN_KEY_SALT → -admin-salt
	INVITE_SALT    → -invite-salt

The dotenv file is loaded before the fallbacks are read. It never
overrides a variable that is already set, and CLI flags take precedence
over both.
*/
package cliparse
