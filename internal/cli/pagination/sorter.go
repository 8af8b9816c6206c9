package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edupredict/edupredict/internal/listview"
)

// ErrInvalidSortField is returned for a sort key the view does not define.
var ErrInvalidSortField = errors.New("invalid sort field")

// ValidateSortKey checks key against the schema. The empty key means unsorted.
func ValidateSortKey[T any](schema listview.Schema[T], key string) error {
	if key == "" {
		return nil
	}
	if _, ok := schema.SortKey(key); ok {
		return nil
	}
	return fmt.Errorf("%w %q (valid: %s)", ErrInvalidSortField, key,
		strings.Join(schema.SortKeyNames(), ", "))
}
