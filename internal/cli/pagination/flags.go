package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/edupredict/edupredict/internal/listview"
)

// Flag names shared by every list command.
const (
	FlagPage     = "page"
	FlagPageSize = "page-size"
	FlagSearch   = "search"
	FlagFilter   = "filter"
	FlagSort     = "sort"

	DefaultPage = 1
	MinPage     = 1
)

// Validation errors.
var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = fmt.Errorf("page-size must be between %d and %d",
		listview.MinPageSize, listview.MaxPageSize)
	ErrInvalidFilter = errors.New("invalid filter: use 'name=value' (e.g., 'risk=high')")
)

// Params holds the list flags of one command invocation.
type Params struct {
	// Page is the 1-based page to show.
	Page int

	// PageSize is the number of records requested from the backend.
	PageSize int

	// Search is the free-text filter applied to the fetched page.
	Search string

	// Filters are category selections in name=value form.
	Filters []string

	// Sort is "key" or "key:asc|desc".
	Sort string
}

// NewParams returns params on page 1 with the given page size.
func NewParams(pageSize int) *Params {
	return &Params{Page: DefaultPage, PageSize: pageSize}
}

// AddFlags registers the list flags on fs.
func (p *Params) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&p.Page, FlagPage, p.Page, "page number to show (1-based)")
	fs.IntVar(&p.PageSize, FlagPageSize, p.PageSize, "records requested per page")
	fs.StringVar(&p.Search, FlagSearch, "", "case-insensitive text search over the page")
	fs.StringArrayVar(&p.Filters, FlagFilter, nil, "category filter as name=value (repeatable, value 'all' disables)")
	fs.StringVar(&p.Sort, FlagSort, "", "sort key, optionally with direction (e.g. 'grade:desc')")
}

// Validate checks the flags without knowing the view.
func (p Params) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w, got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < listview.MinPageSize || p.PageSize > listview.MaxPageSize {
		return fmt.Errorf("%w, got %d", ErrInvalidPageSize, p.PageSize)
	}
	if _, err := p.SortState(); err != nil {
		return err
	}
	if _, err := p.Categories(); err != nil {
		return err
	}
	return nil
}

// SortState parses the sort flag.
func (p Params) SortState() (listview.SortState, error) {
	return listview.ParseSortState(p.Sort)
}

// Categories parses the filter flags. A later flag for the same name wins.
func (p Params) Categories() (map[string]string, error) {
	if len(p.Filters) == 0 {
		return nil, nil //nolint:nilnil // no filters is not an error
	}
	out := make(map[string]string, len(p.Filters))
	for _, f := range p.Filters {
		name, value, ok := strings.Cut(f, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, f)
		}
		out[strings.ToLower(name)] = value
	}
	return out, nil
}

// Apply positions ctrl at the requested page with the requested filters and
// sort. Unknown category or sort names are reported with the valid choices.
func Apply[T any](ctrl *listview.Controller[T], p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := ctrl.SetPageSize(p.PageSize); err != nil {
		return err
	}
	ctrl.GoToPage(p.Page)
	ctrl.SetSearch(p.Search)

	schema := ctrl.Schema()
	cats, _ := p.Categories()
	for name, value := range cats {
		if err := ctrl.SetCategory(name, value); err != nil {
			return fmt.Errorf("%w (valid: %s)", err, strings.Join(schema.CategoryNames(), ", "))
		}
	}

	s, _ := p.SortState()
	if err := ValidateSortKey(schema, s.Key); err != nil {
		return err
	}
	return ctrl.SetSort(s)
}
