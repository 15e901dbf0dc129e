package outline

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	youtubeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	numericIDRegex = regexp.MustCompile(`^[0-9]+$`)
	loomIDRegex    = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// EmbedURL normalizes a lesson video reference into an embeddable player URL.
// YouTube, Vimeo and Loom links are recognised; anything else comes back trimmed with ok=false.
func EmbedURL(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return ref, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	segs := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	switch host {
	case "youtube.com", "youtube-nocookie.com":
		var id string
		switch {
		case len(segs) == 1 && segs[0] == "watch":
			id = u.Query().Get("v")
		case len(segs) == 2 && (segs[0] == "embed" || segs[0] == "shorts" || segs[0] == "live"):
			id = segs[1]
		}
		if youtubeIDRegex.MatchString(id) {
			return "https://www.youtube.com/embed/" + id, true
		}
	case "youtu.be":
		if len(segs) == 1 && youtubeIDRegex.MatchString(segs[0]) {
			return "https://www.youtube.com/embed/" + segs[0], true
		}
	case "vimeo.com":
		if len(segs) >= 1 && numericIDRegex.MatchString(segs[len(segs)-1]) {
			return "https://player.vimeo.com/video/" + segs[len(segs)-1], true
		}
	case "player.vimeo.com":
		if len(segs) == 2 && segs[0] == "video" && numericIDRegex.MatchString(segs[1]) {
			return "https://player.vimeo.com/video/" + segs[1], true
		}
	case "loom.com":
		if len(segs) == 2 && (segs[0] == "share" || segs[0] == "embed") && loomIDRegex.MatchString(segs[1]) {
			return "https://www.loom.com/embed/" + segs[1], true
		}
	}
	return ref, false
}
