package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/edupredict/edupredict/internal/listview"
)

// ErrEmptyRole is returned by AssignRole for a blank role name.
var ErrEmptyRole = errors.New("role cannot be empty")

// Role is an entry of the role catalogue. The backend returns either plain
// names or objects; both decode.
type Role struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts "Admin" as well as {"name":"Admin",...}.
func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = Role{Name: name}
		return nil
	}
	type plain Role
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding role: %w", err)
	}
	*r = Role(p)
	return nil
}

// AssignRoleRequest is the body of POST /roles/assign.
type AssignRoleRequest struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
}

// ListUsers fetches one page of the users directory.
func (c *Client) ListUsers(ctx context.Context, req listview.PageRequest) ([]listview.Record, error) {
	return c.listPage(ctx, "/users/", req)
}

// ListUserRoles fetches one page of users with their assigned role.
func (c *Client) ListUserRoles(ctx context.Context, req listview.PageRequest) ([]listview.Record, error) {
	return c.listPage(ctx, "/roles/users-with-roles", req)
}

// ListRoles returns the role catalogue.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := c.getJSON(ctx, "/roles/", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRole gives a user a role.
func (c *Client) AssignRole(ctx context.Context, userID int, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrEmptyRole
	}
	return c.sendJSON(ctx, http.MethodPost, "/roles/assign", AssignRoleRequest{UserID: userID, Role: role}, nil)
}
