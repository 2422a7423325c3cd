// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, admin keys, member tokens and invite codes.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(groupID, salt)
	err := auth.ValidateAdminKey(groupID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same group ID and salt always produce the same key, so it is never stored.

# Member Tokens

Member tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateMemberToken()

Every member gets one when they join. It is the only way to read your own
assignment, so it is never returned again after joining.

# Invite Codes

Invite codes are short base62 strings derived from the group ID:

	code := auth.GenerateInviteCode(groupID, salt)

# IDs

Groups and members get UUIDs; draws get a random hex ID:

	id := auth.GenerateID()
	drawID, err := auth.GenerateDrawID(16)  // 32 hex characters
*/
package auth
