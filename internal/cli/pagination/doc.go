// Package pagination provides the list flags shared by edupredict commands.
//
// This package contains:
//   - Params: --page, --page-size, --search, --filter and --sort parsing and validation
//   - Apply: positions a listview.Controller from parsed flags
//   - Meta: page metadata printed under tables and embedded in JSON output
//
// The backend reports no total count, so pages are addressed by number only
// and the next-page hint follows the full-page heuristic of the controller.
package pagination
