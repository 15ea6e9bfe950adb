package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghostguard/ghostguard/internal/domain/inbox"
	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

type staticLoader struct{ items []*inbox.Item }

func (l staticLoader) Load(context.Context, threats.Source, string) ([]*inbox.Item, error) {
	return l.items, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newManager(items ...*inbox.Item) *Manager {
	return NewManager(staticLoader{items: items}, fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})
}

func TestConnectAndGet(t *testing.T) {
	m := newManager(&inbox.Item{ID: "m1", Body: "hi"})

	sess, err := m.Connect(context.Background(), "acme", threats.SourceEmail, "user@gmail.com")
	if err != nil {
		t.Fatal(err)
	}
	if !sess.Status.Connected {
		t.Error("session should be connected")
	}
	if sess.Status.Provider != "Gmail" {
		t.Errorf("Provider = %s, want Gmail", sess.Status.Provider)
	}
	if got := len(sess.Items().List()); got != 1 {
		t.Errorf("loaded %d items, want 1", got)
	}

	got, err := m.Get("acme", sess.ID)
	if err != nil || got.ID != sess.ID {
		t.Errorf("Get = %v, %v", got, err)
	}
	if _, err := m.Get("other-tenant", sess.ID); !errors.Is(err, ErrNotFound) {
		t.Error("sessions must not leak across tenants")
	}
}

func TestConnectRejectsBadSource(t *testing.T) {
	m := newManager()
	if _, err := m.Connect(context.Background(), "acme", threats.SourceBrowser, "x"); !errors.Is(err, ErrBadSource) {
		t.Errorf("err = %v, want ErrBadSource", err)
	}
}

func TestDisconnectClearsCache(t *testing.T) {
	m := newManager()
	sess, err := m.Connect(context.Background(), "acme", threats.SourceWhatsApp, "+15550100")
	if err != nil {
		t.Fatal(err)
	}

	sess.ScanCache().Claim("https://seen.test")
	if err := m.Disconnect("acme", sess.ID); err != nil {
		t.Fatal(err)
	}

	if sess.ScanCache().Len() != 0 {
		t.Error("disconnect must clear the dedup cache")
	}
	if !sess.ScanCache().Claim("https://seen.test") {
		t.Error("URL should be scannable again after reconnect")
	}
	if _, err := m.Get("acme", sess.ID); !errors.Is(err, ErrNotFound) {
		t.Error("session should be gone after disconnect")
	}
	if err := m.Disconnect("acme", sess.ID); !errors.Is(err, ErrNotFound) {
		t.Error("double disconnect should report not found")
	}
}

func TestProviderFor(t *testing.T) {
	cases := []struct {
		source  threats.Source
		account string
		want    string
	}{
		{threats.SourceEmail, "a@gmail.com", "Gmail"},
		{threats.SourceEmail, "a@hotmail.co.uk", "Outlook"},
		{threats.SourceEmail, "a@outlook.com", "Outlook"},
		{threats.SourceEmail, "a@yahoo.com", "Yahoo"},
		{threats.SourceEmail, "a@corp.example", "corp.example"},
		{threats.SourceEmail, "not-an-address", "unknown"},
		{threats.SourceWhatsApp, "+15550100", "WhatsApp"},
	}
	for _, c := range cases {
		if got := providerFor(c.source, c.account); got != c.want {
			t.Errorf("providerFor(%s, %q) = %s, want %s", c.source, c.account, got, c.want)
		}
	}
}
