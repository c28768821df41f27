package playlist

import (
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches the first HTTP(S) URL in a blob of pasted text,
// with or without a scheme ("www." counts).
var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s]+`)

// hostKinds classifies by exact host membership after stripping "www.".
var hostKinds = map[string]Kind{
	"youtube.com": KindVideo,
	"youtu.be":    KindVideo,
	"twitter.com": KindSocial,
	"x.com":       KindSocial,
}

// Classify turns raw pasted text into a partial item of the inferred
// kind. It never fetches the URL and discards any prose surrounding a
// matched URL; addedContext is the place for accompanying text.
// Classification is pure: same input, same output.
func Classify(raw string) Item {
	match := urlPattern.FindString(raw)
	if match == "" {
		return Item{Type: KindText, Content: raw}
	}

	candidate := match
	if !strings.HasPrefix(strings.ToLower(candidate), "http") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return Item{Type: KindLink, URL: match}
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	if kind, ok := hostKinds[host]; ok {
		return Item{Type: kind, URL: match}
	}
	return Item{Type: KindLink, URL: match}
}
