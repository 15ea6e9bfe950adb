package scan

import (
	"reflect"
	"testing"
)

func TestExtractURLs(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"no links", "no links here", nil},
		{"two links in order", "see https://a.com and https://b.com/x", []string{"https://a.com", "https://b.com/x"}},
		{"http scheme", "go to http://plain.example now", []string{"http://plain.example"}},
		{"duplicates kept", "https://dup.com https://dup.com", []string{"https://dup.com", "https://dup.com"}},
		{"greedy to whitespace", "link https://a.com/path?q=1&x=2!\ttail", []string{"https://a.com/path?q=1&x=2!"}},
		{"empty text", "", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ExtractURLs(c.text)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("ExtractURLs(%q) = %v, want %v", c.text, got, c.want)
			}
		})
	}
}

func TestQuickMaliciousCheck(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want bool
	}{
		{"parse failure fails closed", "not a url", true},
		{"missing host fails closed", "https://", true},
		{"blocklist substring", "https://malicious-site.com/x", true},
		{"blocklist subdomain", "https://login.phishing-domain.net/account", true},
		{"suspicious tld", "https://free-prizes.xyz", true},
		{"suspicious tld top", "https://cheap-deals.top/offer", true},
		{"shortener exact match", "https://bit.ly/abc123", true},
		{"shortener t.co", "https://t.co/x", true},
		{"clean host", "https://example.com/welcome", false},
		{"info substring in path only", "https://example.com/info", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := QuickMaliciousCheck(c.url); got != c.want {
				t.Errorf("QuickMaliciousCheck(%q) = %v, want %v", c.url, got, c.want)
			}
		})
	}
}
