package models

import "time"

// Group status constants
const (
	StatusPending  = "pending"
	StatusReady    = "ready"
	StatusAssigned = "assigned"
)

// Member and device-link roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Device platforms
const (
	PlatformIOS     = "ios"
	PlatformMacOS   = "macos"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// Request types

type CreateGroupRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatorName string     `json:"creator_name"`
	Budget      *float64   `json:"budget,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	PlaceName   string     `json:"place_name"`
	Address     string     `json:"address"`
}

// Nil fields are left unchanged
type UpdateGroupRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	PlaceName   *string    `json:"place_name,omitempty"`
	Address     *string    `json:"address,omitempty"`
}

type JoinGroupRequest struct {
	Name string `json:"name"`
}

type RegisterDeviceRequest struct {
	Platform string `json:"platform"`
}

// Response types

type CreateGroupResponse struct {
	GroupID     string `json:"group_id"`
	AdminKey    string `json:"admin_key"`
	InviteCode  string `json:"invite_code"`
	InviteURL   string `json:"invite_url"`
	MemberID    string `json:"member_id"`
	MemberToken string `json:"member_token"`
}

type JoinGroupResponse struct {
	GroupID     string `json:"group_id"`
	MemberID    string `json:"member_id"`
	MemberToken string `json:"member_token"`
	Status      string `json:"status"`
}

type DrawResponse struct {
	DrawID       string    `json:"draw_id"`
	DrawnAt      time.Time `json:"drawn_at"`
	Participants int       `json:"participants"`
	Status       string    `json:"status"`
}

type MyAssignmentResponse struct {
	GroupID      string `json:"group_id"`
	DrawID       string `json:"draw_id"`
	ReceiverID   string `json:"receiver_id"`
	ReceiverName string `json:"receiver_name"`
}

type VerifyDrawResponse struct {
	DrawID       string `json:"draw_id"`
	Valid        bool   `json:"valid"`
	Reason       string `json:"reason,omitempty"`
	Participants int    `json:"participants"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type LockResponse struct {
	IsLocked bool `json:"is_locked"`
}

type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	IsNew    bool   `json:"is_new"`
}

type GetMyGroupsResponse struct {
	Groups []DeviceGroupSummary `json:"groups"`
}

// Domain types

type Group struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Budget      *float64   `json:"budget,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	PlaceName   string     `json:"place_name"`
	Address     string     `json:"address"`
	Status      string     `json:"status"`
	InviteCode  string     `json:"invite_code"`
	IsLocked    bool       `json:"is_locked"`
	DrawID      *string    `json:"draw_id,omitempty"`
	DrawnAt     *time.Time `json:"drawn_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// Display text, filled in by handlers
	BudgetText string `json:"budget_text,omitempty"`
	EventText  string `json:"event_text,omitempty"`
}

type Member struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Token    string    `json:"-"` // Never expose in JSON
	JoinedAt time.Time `json:"joined_at"`
}

type GroupWithMembers struct {
	Group   Group    `json:"group"`
	Members []Member `json:"members"`
}

type DeviceInfo struct {
	ID         string    `json:"id"`
	Platform   string    `json:"platform"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

type DeviceGroupSummary struct {
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	InviteCode  string    `json:"invite_code"`
	Role        string    `json:"role"`
	MemberID    *string   `json:"member_id,omitempty"`
	MemberName  *string   `json:"member_name,omitempty"`
	LinkedAt    time.Time `json:"linked_at"`
	MemberCount int       `json:"member_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
