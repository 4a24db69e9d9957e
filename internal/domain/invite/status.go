package invite

import "strings"

// Status is the normalized invite status vocabulary.
type Status string

const (
	StatusCreated   Status = "created"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
	StatusExpired   Status = "expired"
	StatusUnknown   Status = "unknown"
)

var (
	createdSet  = newSet("created", "new")
	pendingSet  = newSet("pending", "sent", "waiting")
	doneSet     = newSet("fulfilled", "signed", "completed", "done")
	declinedSet = newSet("declined", "rejected", "canceled", "cancelled")
	expiredSet  = newSet("expired")
)

func newSet(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// Classify maps a raw upstream status onto the normalized vocabulary.
// Classes are checked in precedence order declined, expired, done,
// pending, created.
func Classify(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusUnknown
	}
	if _, ok := declinedSet[s]; ok {
		return StatusDeclined
	}
	if _, ok := expiredSet[s]; ok {
		return StatusExpired
	}
	if _, ok := doneSet[s]; ok {
		return StatusCompleted
	}
	if _, ok := pendingSet[s]; ok {
		return StatusPending
	}
	if _, ok := createdSet[s]; ok {
		return StatusCreated
	}
	return StatusUnknown
}

// IsExpired decides whether a participant has lapsed at now (epoch seconds).
// Only pending or unknown participants can lapse by time.
func IsExpired(raw string, expiresAt *int64, now int64) bool {
	status := Classify(raw)
	if status == StatusExpired {
		return true
	}
	if expiresAt == nil {
		return false
	}
	return now > *expiresAt && (status == StatusPending || status == StatusUnknown)
}
