// Package listview provides the controller shared by every paginated list view.
//
// A Controller composes four parts:
//   - Cursor: the requested page number and page size
//   - Window: the most recently fetched page plus a hasMore flag
//   - Filter: search text and categorical filters applied to the fetched page only
//   - Sort: a single-key stable sort applied to the filtered page
//
// The backend never reports a total count, so hasMore is inferred from whether the
// fetched page was full. At an exact multiple of the page size this yields one extra
// empty page; that behavior is intentional and covered by tests.
//
// Fetches are fenced by sequence number: only the response to the most recently
// issued request is applied, older responses are discarded.
package listview
