// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreateGroupRequest: name, description, creator_name, budget, event_date, place_name, address
  - UpdateGroupRequest: same fields as pointers, nil means unchanged
  - JoinGroupRequest: name
  - RegisterDeviceRequest: platform

# Response Types

  - CreateGroupResponse: group_id, admin_key, invite_code, invite_url, member_id, member_token
  - JoinGroupResponse: group_id, member_id, member_token, status
  - DrawResponse: draw_id, drawn_at, participants, status
  - MyAssignmentResponse: receiver_id, receiver_name
  - VerifyDrawResponse: valid, reason
  - StatusResponse, LockResponse
  - ErrorResponse: error, message

# Domain Types

  - Group: group metadata, lifecycle state and draw state
  - Member: participant; Token is never serialized
  - GroupWithMembers
  - DeviceInfo, DeviceGroupSummary

# Constants

Status values:

	StatusPending  = "pending"   // fewer than 3 members
	StatusReady    = "ready"     // 3 or more members, no draw
	StatusAssigned = "assigned"  // a draw exists

Roles:

	RoleAdmin  = "admin"
	RoleMember = "member"

Platforms:

	PlatformIOS     = "ios"
	PlatformMacOS   = "macos"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
*/
package models
