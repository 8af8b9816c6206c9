package listview

// HasMore is the next-page heuristic: a full page implies there may be more.
// With no total count available, a dataset that is an exact multiple of
// pageSize reports true on its last page and the following page comes back empty.
func HasMore(fetched, pageSize int) bool {
	return pageSize > 0 && fetched >= pageSize
}

// Window holds the most recently fetched page of records.
type Window[T any] struct {
	records []T
	hasMore bool
}

// Set replaces the whole window with records fetched for pageSize.
func (w *Window[T]) Set(records []T, pageSize int) {
	w.records = records
	w.hasMore = HasMore(len(records), pageSize)
}

// Fail empties the window after a fetch error: no data, no next page.
func (w *Window[T]) Fail() {
	w.records = nil
	w.hasMore = false
}

// Records returns the fetched records in server order.
func (w *Window[T]) Records() []T {
	return w.records
}

// HasMore reports whether a next page may exist.
func (w *Window[T]) HasMore() bool {
	return w.hasMore
}

// Len returns the number of fetched records.
func (w *Window[T]) Len() int {
	return len(w.records)
}
