// Package share builds platform share links and messages for a
// finished combination.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform identifies a share target.
type Platform int

const (
	PlatformTwitter Platform = iota
	PlatformWhatsApp
	PlatformFacebook
	PlatformEmail
)

// String returns a human-readable platform name.
func (p Platform) String() string {
	switch p {
	case PlatformTwitter:
		return "twitter"
	case PlatformWhatsApp:
		return "whatsapp"
	case PlatformFacebook:
		return "facebook"
	case PlatformEmail:
		return "email"
	default:
		return "unknown"
	}
}

// appURL is the address embedded in links that need a URL to share.
const appURL = "https://reverie.example"

// ParsePlatform maps user input to a platform.
func ParsePlatform(s string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "twitter", "x":
		return PlatformTwitter, true
	case "whatsapp", "wa":
		return PlatformWhatsApp, true
	case "facebook", "fb":
		return PlatformFacebook, true
	case "email", "mail":
		return PlatformEmail, true
	default:
		return PlatformTwitter, false
	}
}

// Message renders the shared text for a combination, including the
// score when one was given (score 0 means unrated).
func Message(text string, score int) string {
	msg := fmt.Sprintf("« %s »", text)
	if score > 0 {
		msg += fmt.Sprintf(" — noté %d/10", score)
	}
	return msg + " #réverie"
}

// URL builds the platform-specific share link for a combination.
func URL(p Platform, text string, score int) string {
	msg := Message(text, score)
	switch p {
	case PlatformWhatsApp:
		return "https://wa.me/?text=" + escape(msg)
	case PlatformFacebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + escape(appURL) + "&quote=" + escape(msg)
	case PlatformEmail:
		return "mailto:?subject=" + escape("Ma réverie du jour") + "&body=" + escape(msg)
	default:
		return "https://twitter.com/intent/tweet?text=" + escape(msg)
	}
}

// escape percent-encodes for use in both query strings and mailto
// bodies, where "+" for spaces is not universally understood.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
