package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/edupredict/edupredict/internal/listview"
)

// ErrInvalidResource is returned for an empty or malformed resource path.
var ErrInvalidResource = errors.New("invalid resource path")

// resourcePath normalizes "academic/materias" to "/academic/materias/".
func resourcePath(resource string) (string, error) {
	r := strings.Trim(strings.TrimSpace(resource), "/")
	if r == "" || strings.Contains(r, "..") || strings.ContainsAny(r, "?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidResource, resource)
	}
	return "/" + r + "/", nil
}

func itemPath(resource, id string) (string, error) {
	base, err := resourcePath(resource)
	if err != nil {
		return "", err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrInvalidResource)
	}
	return base + url.PathEscape(id), nil
}

// ListResource fetches one page of a generic CRUD resource.
func (c *Client) ListResource(ctx context.Context, resource string, req listview.PageRequest) ([]listview.Record, error) {
	path, err := resourcePath(resource)
	if err != nil {
		return nil, err
	}
	return c.listPage(ctx, path, req)
}

// CreateResource creates an item and returns the stored record.
func (c *Client) CreateResource(ctx context.Context, resource string, item listview.Record) (listview.Record, error) {
	path, err := resourcePath(resource)
	if err != nil {
		return nil, err
	}
	var out listview.Record
	if err = c.sendJSON(ctx, http.MethodPost, path, item, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateResource replaces the fields of item id and returns the stored record.
func (c *Client) UpdateResource(ctx context.Context, resource, id string, item listview.Record) (listview.Record, error) {
	path, err := itemPath(resource, id)
	if err != nil {
		return nil, err
	}
	var out listview.Record
	if err = c.sendJSON(ctx, http.MethodPut, path, item, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteResource deletes item id.
func (c *Client) DeleteResource(ctx context.Context, resource, id string) error {
	path, err := itemPath(resource, id)
	if err != nil {
		return err
	}
	return c.sendJSON(ctx, http.MethodDelete, path, nil, nil)
}

// ListActivityLogs fetches one page of the activity log.
func (c *Client) ListActivityLogs(ctx context.Context, req listview.PageRequest) ([]listview.Record, error) {
	return c.listPage(ctx, "/logs/activity", req)
}

// ListAuditLogs fetches one page of the data audit log.
func (c *Client) ListAuditLogs(ctx context.Context, req listview.PageRequest) ([]listview.Record, error) {
	return c.listPage(ctx, "/logs/audit", req)
}
