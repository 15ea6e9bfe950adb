package sample

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ghostguard/ghostguard/internal/domain/inbox"
	domscan "github.com/ghostguard/ghostguard/internal/domain/scan"
	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

// Loader generates demo inboxes in place of real IMAP/WhatsApp-Web clients.
// The URL pool deliberately mixes clean hosts with entries that trip the
// heuristic blocklist.
type Loader struct {
	rng *rand.Rand
}

func NewLoader(seed int64) *Loader {
	return &Loader{rng: rand.New(rand.NewSource(seed))}
}

var emailSubjects = []string{
	"Your account security alert",
	"New login attempt",
	"Document shared with you",
	"Payment confirmation",
	"Your order has shipped",
	"Action required: Update your information",
	"Meeting invitation",
	"Your subscription is expiring",
	"Your receipt",
	"Invitation to collaborate",
}

var emailSenders = []string{
	"security@example.com",
	"noreply@payment-service.com",
	"team@collaboration-app.com",
	"info@newsletter.com",
	"support@cloud-storage.com",
}

var emailURLs = []string{
	"https://legitimate-bank.com/security",
	"https://malicious-site.net/update-account",
	"https://document-share.com/doc123",
	"https://fake-payment.com/receipt",
	"https://tracking.delivery.com/package",
}

var chatSenders = []string{
	"Alice",
	"Bob",
	"Work Group",
	"Family Group",
	"Unknown",
}

var chatURLs = []string{
	"https://example.com/safe-site",
	"https://malware-test.com/dangerous",
	"https://phishing.example.net/login",
	"https://good-site.org/welcome",
	"https://virus.test/download",
}

func (l *Loader) Load(_ context.Context, source threats.Source, _ string) ([]*inbox.Item, error) {
	switch source {
	case threats.SourceEmail:
		return l.emails(15), nil
	case threats.SourceWhatsApp:
		return l.messages(10), nil
	default:
		return nil, fmt.Errorf("no sample inbox for source %q", source)
	}
}

func (l *Loader) emails(n int) []*inbox.Item {
	now := time.Now()
	items := make([]*inbox.Item, 0, n)
	for i := 0; i < n; i++ {
		var urls []string
		if l.rng.Float64() > 0.2 {
			for j := 0; j < l.rng.Intn(3)+1; j++ {
				urls = append(urls, emailURLs[l.rng.Intn(len(emailURLs))])
			}
		}
		body := fmt.Sprintf("This is email %d without any links.", i+1)
		if len(urls) > 0 {
			body = "Hello, please check the following link: " + joinAnd(urls)
		}
		items = append(items, &inbox.Item{
			ID:          inbox.ItemID(uuid.New().String()),
			Sender:      emailSenders[l.rng.Intn(len(emailSenders))],
			Subject:     emailSubjects[l.rng.Intn(len(emailSubjects))],
			Body:        body,
			Timestamp:   now.Add(-time.Duration(l.rng.Intn(7*24)) * time.Hour),
			ContainsURL: len(urls) > 0,
			URLs:        domscan.ExtractURLs(body),
		})
	}
	sortNewestFirst(items)
	return items
}

func (l *Loader) messages(n int) []*inbox.Item {
	now := time.Now()
	items := make([]*inbox.Item, 0, n)
	for i := 0; i < n; i++ {
		hasURL := l.rng.Float64() > 0.4
		body := fmt.Sprintf("Message %d without any link", i+1)
		if hasURL {
			body = "Check out this link: " + chatURLs[l.rng.Intn(len(chatURLs))]
		}
		items = append(items, &inbox.Item{
			ID:          inbox.ItemID(uuid.New().String()),
			Sender:      chatSenders[l.rng.Intn(len(chatSenders))],
			Body:        body,
			Timestamp:   now.Add(-time.Duration(l.rng.Intn(24*60)) * time.Minute),
			ContainsURL: hasURL,
			URLs:        domscan.ExtractURLs(body),
		})
	}
	sortNewestFirst(items)
	return items
}

func joinAnd(urls []string) string {
	out := urls[0]
	for _, u := range urls[1:] {
		out += " and also " + u
	}
	return out
}

func sortNewestFirst(items []*inbox.Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
}
