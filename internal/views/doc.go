// Package views holds the per-screen configuration of every list: which
// columns to show, which fields search looks at, which categories can be
// filtered and which keys can be sorted. Each View feeds a
// listview.Controller; the fetcher is bound by the caller.
package views
