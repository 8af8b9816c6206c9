package pagination

import (
	"fmt"

	"github.com/edupredict/edupredict/internal/listview"
)

// Meta describes one rendered page. The backend reports no total, so there is
// no page count; HasNext is the full-page heuristic.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	Returned    int  `json:"returned"`
	Fetched     int  `json:"fetched"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// NewMeta builds page metadata from a controller snapshot.
func NewMeta[T any](snap listview.Snapshot[T]) Meta {
	return Meta{
		CurrentPage: snap.Page,
		PageSize:    snap.PageSize,
		Returned:    len(snap.Records),
		Fetched:     snap.Fetched,
		HasPrevious: snap.Page > MinPage,
		HasNext:     snap.HasMore,
	}
}

// Footer is the one-line page summary printed under a table.
func (m Meta) Footer() string {
	if m.Returned == m.Fetched {
		return fmt.Sprintf("Page %d (%d records)", m.CurrentPage, m.Returned)
	}
	return fmt.Sprintf("Page %d (%d of %d records match)", m.CurrentPage, m.Returned, m.Fetched)
}

// NextHint tells the user how to see the next page; it is empty without one.
func (m Meta) NextHint() string {
	if !m.HasNext {
		return ""
	}
	return fmt.Sprintf("more results: --page %d", m.CurrentPage+1)
}
