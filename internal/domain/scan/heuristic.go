package scan

import (
	"net/url"
	"strings"
)

// Known malicious domains blocklist
var maliciousDomains = []string{
	"malicious-site.com",
	"phishing-domain.net",
	"scam-link.org",
	"malware-test.com",
	"phishing.example.net",
}

// Suspicious TLDs frequently seen in throwaway phishing infrastructure
var suspiciousTLDs = []string{".xyz", ".top", ".info", ".click"}

// URL shorteners: not malicious per se, but always routed to deep analysis
var urlShorteners = []string{"bit.ly", "t.co", "tinyurl.com", "goo.gl", "tiny.cc"}

// QuickMaliciousCheck is the fast local pre-screen. It is a signal, not a
// verdict: every URL still goes through AI analysis unless the heuristic gate
// is enabled. Unparseable URLs are treated as suspicious (fail-closed).
func QuickMaliciousCheck(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return true
	}
	hostname := strings.ToLower(u.Hostname())

	for _, domain := range maliciousDomains {
		if strings.Contains(hostname, domain) {
			return true
		}
	}
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(hostname, tld) {
			return true
		}
	}
	for _, shortener := range urlShorteners {
		if hostname == shortener {
			return true
		}
	}
	return false
}
