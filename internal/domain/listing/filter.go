package listing

import (
	"fmt"
	"strings"

	"github.com/rpggio/sn-mcp/internal/domain/invite"
)

// ExpiredFilter selects items by the expiry of their invite.
type ExpiredFilter string

const (
	FilterAll        ExpiredFilter = "all"
	FilterExpired    ExpiredFilter = "expired"
	FilterNotExpired ExpiredFilter = "not-expired"
)

// ParseExpiredFilter validates a caller-supplied filter. Empty means all.
func ParseExpiredFilter(raw string) (ExpiredFilter, error) {
	switch f := ExpiredFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterExpired, FilterNotExpired:
		return f, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidExpiredFilter, raw)
	}
}

// Matches reports whether an item with the given invite passes the filter.
// An item without an invite is not expired.
func (f ExpiredFilter) Matches(inv *invite.Invite) bool {
	switch f {
	case FilterExpired:
		return inv.IsExpired()
	case FilterNotExpired:
		return !inv.IsExpired()
	default:
		return true
	}
}

const defaultLimit = 50

// normalizePaging applies the default limit and rejects negative offsets.
func normalizePaging(limit, offset int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return limit, offset, nil
}

// paginate slices the already filtered items and reports whether more remain.
func paginate[T any](items []T, limit, offset int) ([]T, bool) {
	total := len(items)
	if offset >= total {
		return []T{}, false
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := items[offset:end]
	return page, offset+len(page) < total
}
