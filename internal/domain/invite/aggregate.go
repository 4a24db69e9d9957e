package invite

// Invite is the aggregated signing state of a document or document group.
type Invite struct {
	ID           *string       `json:"invite_id"`
	Status       Status        `json:"status"`
	RawStatus    *string       `json:"raw_status"`
	ExpiresAt    *int64        `json:"expires_at"`
	Expired      bool          `json:"expired"`
	Participants []Participant `json:"participants"`
}

// IsExpired reports whether the invite is expired; a missing invite is not.
func (i *Invite) IsExpired() bool {
	return i != nil && i.Expired
}

// PickExpiresAt returns the earliest expiry among pending participants,
// falling back to the earliest expiry among all participants.
func PickExpiresAt(participants []Participant) *int64 {
	var pending, earliest *int64
	for _, p := range participants {
		if p.ExpiresAt == nil {
			continue
		}
		if earliest == nil || *p.ExpiresAt < *earliest {
			earliest = p.ExpiresAt
		}
		if p.Status == StatusPending && (pending == nil || *p.ExpiresAt < *pending) {
			pending = p.ExpiresAt
		}
	}
	if pending != nil {
		return copyInt(pending)
	}
	return copyInt(earliest)
}

// ComputeStatus folds participant statuses into one invite status. An
// explicit upstream status always wins when it classifies.
func ComputeStatus(rawStatus string, participants []Participant, inviteExpired bool) Status {
	if s := Classify(rawStatus); s != StatusUnknown {
		return s
	}

	var anyPending, anyCreated, anyExpired bool
	allDone := len(participants) > 0
	for _, p := range participants {
		switch p.Status {
		case StatusDeclined:
			return StatusDeclined
		case StatusExpired:
			anyExpired = true
		case StatusPending:
			anyPending = true
		case StatusCreated:
			anyCreated = true
		}
		if p.Status != StatusCompleted {
			allDone = false
		}
	}

	switch {
	case inviteExpired || anyExpired:
		return StatusExpired
	case allDone:
		return StatusCompleted
	case anyPending:
		return StatusPending
	case anyCreated:
		return StatusCreated
	default:
		return StatusUnknown
	}
}

// Build aggregates participants into an invite. It returns nil when there
// is nothing to report.
func Build(inviteID, rawStatus string, participants []Participant) *Invite {
	if len(participants) == 0 && inviteID == "" && rawStatus == "" {
		return nil
	}
	if participants == nil {
		participants = []Participant{}
	}

	expired := Classify(rawStatus) == StatusExpired
	for _, p := range participants {
		if p.Expired {
			expired = true
			break
		}
	}

	status := ComputeStatus(rawStatus, participants, expired)
	switch {
	case status == StatusCompleted:
		// Completion is terminal; a lapsed deadline no longer applies.
		expired = false
	case expired && status != StatusDeclined:
		status = StatusExpired
	}

	inv := &Invite{
		Status:       status,
		ExpiresAt:    PickExpiresAt(participants),
		Expired:      expired,
		Participants: participants,
	}
	if inviteID != "" {
		inv.ID = &inviteID
	}
	if rawStatus != "" {
		inv.RawStatus = &rawStatus
	}
	return inv
}

func copyInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
