package invite

import "github.com/rpggio/sn-mcp/internal/signnow"

const defaultAction = "sign"

// Participant is one signer of an invite in normalized form.
type Participant struct {
	Email *string `json:"email"`
	// EmailGroup names the group-delivery target when the invite has no
	// single recipient email.
	EmailGroup *string `json:"email_group,omitempty"`
	Role       string  `json:"role"`
	Action     string  `json:"action"`
	Order      *int64  `json:"order"`
	Status     Status  `json:"status"`
	Created    *int64  `json:"created"`
	Updated    *int64  `json:"updated"`
	ExpiresAt  *int64  `json:"expires_at"`
	Expired    bool    `json:"expired"`
}

// Record is the shape-independent view of one upstream invite row.
type Record struct {
	Email         string
	EmailGroup    string
	Role          string
	Action        string
	Order         *int64
	RawStatus     string
	FullyDeclined bool
	Created       *int64
	Updated       *int64
	ExpiresAt     *int64
}

// Normalize turns a record into a participant evaluated at now.
func Normalize(rec Record, now int64) Participant {
	status := Classify(rec.RawStatus)
	if rec.FullyDeclined {
		status = StatusDeclined
	}
	expired := IsExpired(string(status), rec.ExpiresAt, now)
	if expired {
		status = StatusExpired
	}

	action := rec.Action
	if action == "" {
		action = defaultAction
	}
	var email *string
	if rec.Email != "" {
		e := rec.Email
		email = &e
	}
	var group *string
	if rec.EmailGroup != "" {
		g := rec.EmailGroup
		group = &g
	}
	return Participant{
		Email:      email,
		EmailGroup: group,
		Role:       rec.Role,
		Action:     action,
		Order:      rec.Order,
		Status:     status,
		Created:    rec.Created,
		Updated:    rec.Updated,
		ExpiresAt:  rec.ExpiresAt,
		Expired:    expired,
	}
}

// FromFieldInvite adapts a folder document field invite.
func FromFieldInvite(fi signnow.FieldInviteLite) Record {
	role := fi.Role
	if role == "" {
		role = fi.RoleID
	}
	return Record{
		Email:     fi.Email,
		Role:      role,
		RawStatus: fi.Status,
		Created:   fi.Created.Ptr(),
		Updated:   fi.Updated.Ptr(),
		ExpiresAt: fi.ExpirationTime.Ptr(),
	}
}

// FromGroupInvite adapts a folder document group invite row. These rows
// carry no role.
func FromGroupInvite(gi signnow.GroupInviteLite) Record {
	return Record{
		Email:         gi.Email,
		Action:        gi.Action,
		Order:         gi.Order.Ptr(),
		RawStatus:     gi.Status,
		FullyDeclined: bool(gi.IsFullDeclined),
		Created:       gi.Created.Ptr(),
		Updated:       gi.Updated.Ptr(),
		ExpiresAt:     gi.ExpirationTime.Ptr(),
	}
}

// FromDocumentFieldInvite adapts a field invite of a full document payload.
func FromDocumentFieldInvite(fi signnow.DocumentFieldInvite) Record {
	role := fi.Role
	if role == "" {
		role = fi.RoleID
	}
	return Record{
		Email:     fi.Email,
		Role:      role,
		RawStatus: fi.Status,
		Created:   fi.Created.Ptr(),
		Updated:   fi.Updated.Ptr(),
		ExpiresAt: fi.ExpirationTime.Ptr(),
	}
}

// FromGroupFieldInvite adapts a field invite of a v2 group child document.
// Group-delivery invites carry an email group name and no signer email.
func FromGroupFieldInvite(fi signnow.GroupFieldInvite) Record {
	var group string
	if fi.SignerEmail == "" && fi.EmailGroup != nil {
		group = fi.EmailGroup.Name
	}
	return Record{
		Email:      fi.SignerEmail,
		EmailGroup: group,
		RawStatus:  fi.Status,
		Created:    fi.Created.Ptr(),
		Updated:    fi.Updated.Ptr(),
		ExpiresAt:  fi.ExpirationTime.Ptr(),
	}
}

// NormalizeAll normalizes records in order.
func NormalizeAll(records []Record, now int64) []Participant {
	out := make([]Participant, 0, len(records))
	for _, rec := range records {
		out = append(out, Normalize(rec, now))
	}
	return out
}
