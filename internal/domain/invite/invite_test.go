package invite_test

import (
	"testing"

	"github.com/rpggio/sn-mcp/internal/domain/invite"
	"github.com/rpggio/sn-mcp/internal/signnow"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestClassify(t *testing.T) {
	cases := map[string]invite.Status{
		"created":    invite.StatusCreated,
		"NEW":        invite.StatusCreated,
		" pending ":  invite.StatusPending,
		"sent":       invite.StatusPending,
		"waiting":    invite.StatusPending,
		"fulfilled":  invite.StatusCompleted,
		"Signed":     invite.StatusCompleted,
		"completed":  invite.StatusCompleted,
		"done":       invite.StatusCompleted,
		"declined":   invite.StatusDeclined,
		"rejected":   invite.StatusDeclined,
		"canceled":   invite.StatusDeclined,
		"cancelled":  invite.StatusDeclined,
		"expired":    invite.StatusExpired,
		"":           invite.StatusUnknown,
		"in-flight":  invite.StatusUnknown,
		"unknown":    invite.StatusUnknown,
		"some thing": invite.StatusUnknown,
	}
	for raw, want := range cases {
		got := invite.Classify(raw)
		require.Equal(t, want, got, "raw %q", raw)
		// Canonical names classify to themselves.
		require.Equal(t, got, invite.Classify(string(got)), "raw %q", raw)
	}
}

func TestIsExpired(t *testing.T) {
	require.True(t, invite.IsExpired("expired", nil, 0))
	require.False(t, invite.IsExpired("pending", nil, 500))
	require.True(t, invite.IsExpired("pending", ptr(100), 200))
	require.True(t, invite.IsExpired("whatever", ptr(100), 200))
	require.False(t, invite.IsExpired("pending", ptr(300), 200))
	require.False(t, invite.IsExpired("pending", ptr(200), 200))

	for _, terminal := range []string{"fulfilled", "signed", "completed", "done", "declined", "rejected", "canceled", "cancelled", "created"} {
		require.False(t, invite.IsExpired(terminal, ptr(1), 1_000_000), terminal)
	}
}

func TestNormalize(t *testing.T) {
	t.Run("fulfilled without expiry", func(t *testing.T) {
		p := invite.Normalize(invite.Record{Email: "a@x.io", RawStatus: "fulfilled"}, 200)
		require.Equal(t, invite.StatusCompleted, p.Status)
		require.False(t, p.Expired)
		require.Equal(t, "sign", p.Action)
		require.Equal(t, "a@x.io", *p.Email)
	})

	t.Run("stale pending is forced to expired", func(t *testing.T) {
		p := invite.Normalize(invite.Record{RawStatus: "pending", ExpiresAt: ptr(100)}, 200)
		require.Equal(t, invite.StatusExpired, p.Status)
		require.True(t, p.Expired)
		require.Nil(t, p.Email)
	})

	t.Run("signed stays completed past deadline", func(t *testing.T) {
		p := invite.Normalize(invite.Record{RawStatus: "signed", ExpiresAt: ptr(100)}, 200)
		require.Equal(t, invite.StatusCompleted, p.Status)
		require.False(t, p.Expired)
	})

	t.Run("full decline wins before expiry", func(t *testing.T) {
		p := invite.Normalize(invite.Record{RawStatus: "pending", FullyDeclined: true, ExpiresAt: ptr(100)}, 200)
		require.Equal(t, invite.StatusDeclined, p.Status)
		require.False(t, p.Expired)
	})
}

func TestAdapters(t *testing.T) {
	var fi signnow.FieldInviteLite
	fi.Email = "a@x.io"
	fi.RoleID = "role-1"
	fi.Status = "pending"
	fi.ExpirationTime = signnow.Int(100)
	rec := invite.FromFieldInvite(fi)
	require.Equal(t, "role-1", rec.Role)
	require.Equal(t, int64(100), *rec.ExpiresAt)

	gi := signnow.GroupInviteLite{Email: "b@x.io", Action: "approve", Order: signnow.Int(2), Status: "pending", IsFullDeclined: true}
	rec = invite.FromGroupInvite(gi)
	require.Equal(t, "approve", rec.Action)
	require.Equal(t, int64(2), *rec.Order)
	require.True(t, rec.FullyDeclined)

	di := signnow.DocumentFieldInvite{Email: "c@x.io", Role: "Signer 1", Status: "fulfilled", Updated: signnow.Int(50)}
	rec = invite.FromDocumentFieldInvite(di)
	require.Equal(t, "Signer 1", rec.Role)
	require.Equal(t, int64(50), *rec.Updated)
	require.Nil(t, rec.Created)

	v2 := signnow.GroupFieldInvite{Status: "pending", EmailGroup: &signnow.EmailGroup{ID: "eg", Name: "Legal"}}
	rec = invite.FromGroupFieldInvite(v2)
	require.Empty(t, rec.Email)
	require.Equal(t, "Legal", rec.EmailGroup)
	p := invite.Normalize(rec, 0)
	require.Nil(t, p.Email)
	require.Equal(t, "Legal", *p.EmailGroup)
	require.Empty(t, rec.Role)
}

func TestPickExpiresAt(t *testing.T) {
	ps := []invite.Participant{
		{Status: invite.StatusCompleted, ExpiresAt: ptr(10)},
		{Status: invite.StatusPending, ExpiresAt: ptr(300)},
		{Status: invite.StatusPending, ExpiresAt: ptr(200)},
		{Status: invite.StatusPending},
	}
	require.Equal(t, int64(200), *invite.PickExpiresAt(ps))

	ps = []invite.Participant{
		{Status: invite.StatusCompleted, ExpiresAt: ptr(40)},
		{Status: invite.StatusDeclined, ExpiresAt: ptr(30)},
	}
	require.Equal(t, int64(30), *invite.PickExpiresAt(ps))

	require.Nil(t, invite.PickExpiresAt([]invite.Participant{{Status: invite.StatusPending}}))
	require.Nil(t, invite.PickExpiresAt(nil))
}

func TestComputeStatus(t *testing.T) {
	p := func(statuses ...invite.Status) []invite.Participant {
		out := make([]invite.Participant, 0, len(statuses))
		for _, s := range statuses {
			out = append(out, invite.Participant{Status: s})
		}
		return out
	}

	require.Equal(t, invite.StatusDeclined, invite.ComputeStatus("", p(invite.StatusCompleted, invite.StatusDeclined, invite.StatusExpired), true))
	require.Equal(t, invite.StatusExpired, invite.ComputeStatus("", p(invite.StatusCompleted, invite.StatusExpired), false))
	require.Equal(t, invite.StatusExpired, invite.ComputeStatus("", p(invite.StatusPending), true))
	require.Equal(t, invite.StatusCompleted, invite.ComputeStatus("", p(invite.StatusCompleted, invite.StatusCompleted), false))
	require.Equal(t, invite.StatusPending, invite.ComputeStatus("", p(invite.StatusCompleted, invite.StatusPending), false))
	require.Equal(t, invite.StatusCreated, invite.ComputeStatus("", p(invite.StatusCreated, invite.StatusUnknown), false))
	require.Equal(t, invite.StatusUnknown, invite.ComputeStatus("", p(invite.StatusUnknown), false))
	require.Equal(t, invite.StatusUnknown, invite.ComputeStatus("", nil, false))

	// An explicit upstream status always wins.
	all := []invite.Status{invite.StatusCreated, invite.StatusPending, invite.StatusCompleted, invite.StatusDeclined, invite.StatusExpired, invite.StatusUnknown}
	for _, raw := range []string{"pending", "fulfilled", "declined", "expired", "created"} {
		require.Equal(t, invite.Classify(raw), invite.ComputeStatus(raw, p(all...), true), raw)
	}
}

func TestBuild(t *testing.T) {
	require.Nil(t, invite.Build("", "", nil))

	inv := invite.Build("inv-1", "", nil)
	require.NotNil(t, inv)
	require.Equal(t, "inv-1", *inv.ID)
	require.Equal(t, invite.StatusUnknown, inv.Status)
	require.Empty(t, inv.Participants)
	require.Nil(t, inv.RawStatus)

	now := int64(200)
	ps := invite.NormalizeAll([]invite.Record{
		{Email: "a@x.io", RawStatus: "pending", ExpiresAt: ptr(100)},
		{Email: "b@x.io", RawStatus: "signed"},
	}, now)
	inv = invite.Build("", "", ps)
	require.Equal(t, invite.StatusExpired, inv.Status)
	require.True(t, inv.Expired)
	require.True(t, inv.IsExpired())
	require.Equal(t, int64(100), *inv.ExpiresAt)
	require.Nil(t, inv.ID)

	// Raw group state classified as pending still reads expired once lapsed.
	inv = invite.Build("inv-2", "pending", ps)
	require.Equal(t, invite.StatusExpired, inv.Status)
	require.Equal(t, "pending", *inv.RawStatus)

	// Terminal raw states are kept.
	inv = invite.Build("inv-3", "declined", ps)
	require.Equal(t, invite.StatusDeclined, inv.Status)
	require.True(t, inv.Expired)

	// Completion is terminal even when a participant deadline has lapsed.
	inv = invite.Build("inv-5", "completed", ps)
	require.Equal(t, invite.StatusCompleted, inv.Status)
	require.False(t, inv.Expired)
	require.False(t, inv.IsExpired())

	inv = invite.Build("inv-4", "expired", nil)
	require.Equal(t, invite.StatusExpired, inv.Status)
	require.True(t, inv.Expired)

	var missing *invite.Invite
	require.False(t, missing.IsExpired())
}
