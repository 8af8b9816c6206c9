package api

import (
	"context"

	"github.com/edupredict/edupredict/internal/listview"
)

// listFunc is the shape of the paged list methods.
type listFunc func(ctx context.Context, req listview.PageRequest) ([]listview.Record, error)

func adapt(fn listFunc) listview.PageFetcher[listview.Record] {
	return func(ctx context.Context, req listview.PageRequest, _ listview.FilterState) ([]listview.Record, error) {
		return fn(ctx, req)
	}
}

// allFunc is the shape of list methods that return every row at once.
type allFunc func(ctx context.Context) ([]listview.Record, error)

// sliced pages an unpaged endpoint locally. Each page refetches the list, so
// the window and its has-more heuristic behave as for paged endpoints.
func sliced(fn allFunc) listview.PageFetcher[listview.Record] {
	return func(ctx context.Context, req listview.PageRequest, _ listview.FilterState) ([]listview.Record, error) {
		all, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		start := min(req.Skip(), len(all))
		end := min(start+req.Limit(), len(all))
		return all[start:end], nil
	}
}

// UsersFetcher adapts ListUsers to a list view.
func (c *Client) UsersFetcher() listview.PageFetcher[listview.Record] {
	return adapt(c.ListUsers)
}

// UserRolesFetcher adapts ListUserRoles to a list view.
func (c *Client) UserRolesFetcher() listview.PageFetcher[listview.Record] {
	return adapt(c.ListUserRoles)
}

// ResourceFetcher adapts ListResource for one resource to a list view.
func (c *Client) ResourceFetcher(resource string) listview.PageFetcher[listview.Record] {
	return adapt(func(ctx context.Context, req listview.PageRequest) ([]listview.Record, error) {
		return c.ListResource(ctx, resource, req)
	})
}

// ActivityLogFetcher adapts ListActivityLogs to a list view.
func (c *Client) ActivityLogFetcher() listview.PageFetcher[listview.Record] {
	return adapt(c.ListActivityLogs)
}

// AuditLogFetcher adapts ListAuditLogs to a list view.
func (c *Client) AuditLogFetcher() listview.PageFetcher[listview.Record] {
	return adapt(c.ListAuditLogs)
}

// AttendanceByCourseFetcher pages AttendanceByCourse.
func (c *Client) AttendanceByCourseFetcher() listview.PageFetcher[listview.Record] {
	return sliced(c.AttendanceByCourse)
}

// CriticalAttendanceFetcher pages CriticalAttendance.
func (c *Client) CriticalAttendanceFetcher() listview.PageFetcher[listview.Record] {
	return sliced(c.CriticalAttendance)
}

// RevenueTrendsFetcher pages RevenueTrends.
func (c *Client) RevenueTrendsFetcher() listview.PageFetcher[listview.Record] {
	return sliced(c.RevenueTrends)
}

// DelinquentsFetcher pages Delinquents.
func (c *Client) DelinquentsFetcher() listview.PageFetcher[listview.Record] {
	return sliced(c.Delinquents)
}
