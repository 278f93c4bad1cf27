package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// timestampFormat is RFC3339 with fixed-width nanoseconds so stored values sort
// lexically in time order.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// parseTimestamp parses an RFC3339 timestamp (with optional fractional seconds).
// Returns an error if parsing fails with a descriptive message including the field name.
func parseTimestamp(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
// SQLite requires a LIMIT before OFFSET, so an offset without limit uses LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
