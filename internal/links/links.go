package links

import (
	"regexp"
	"strings"
)

const twitterBase = "https://twitter.com"

var (
	statusPattern = regexp.MustCompile(`/status/(\d+)`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
	schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
)

// Resolve reconstructs a link to a mention's source from its platform, url and source
// fields. The second return value is false when no link can be built; the mention is then
// shown as plain text. Malformed input never fails, it just yields no link.
func Resolve(platform string, url, source *string) (string, bool) {
	twitter := strings.EqualFold(strings.TrimSpace(platform), "twitter")

	if u := value(url); u != "" {
		if twitter && !hasScheme(u) {
			return twitterFromPath(u), true
		}
		return u, true
	}

	if !twitter {
		return "", false
	}

	src := value(source)
	switch {
	case src == "":
		return "", false
	case strings.HasPrefix(src, "@"):
		return twitterBase + "/" + src[1:], true
	case digitsPattern.MatchString(src):
		return statusURL(src), true
	case strings.HasPrefix(src, "/"):
		return twitterBase + src, true
	}

	return "", false
}

func twitterFromPath(u string) string {
	if match := statusPattern.FindStringSubmatch(u); match != nil {
		return statusURL(match[1])
	}
	if digitsPattern.MatchString(u) {
		return statusURL(u)
	}
	if strings.HasPrefix(u, "/") {
		return twitterBase + u
	}
	return twitterBase + "/" + u
}

func statusURL(id string) string {
	return twitterBase + "/i/web/status/" + id
}

func hasScheme(u string) bool {
	return schemePattern.MatchString(u)
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
