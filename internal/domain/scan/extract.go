package scan

import "regexp"

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURLs pulls URL substrings out of free text, in order of appearance.
// Duplicates are kept; dedup happens at the session cache layer.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
