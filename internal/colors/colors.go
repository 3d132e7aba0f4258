package colors

import "strings"

// Fallback is the neutral gray used when a platform has no known color
const Fallback = "#9E9E9E"

// platformColors maps lower-cased platform identifiers to display colors
var platformColors = map[string]string{
	"twitter":   "#1DA1F2",
	"facebook":  "#1877F2",
	"instagram": "#E4405F",
	"reddit":    "#FF5700",
	"youtube":   "#FF0000",
	"linkedin":  "#0A66C2",
	"news":      "#FFC107",
	"other":     "#4CAF50",
}

// Resolve returns the display color for a platform. An explicit color always wins,
// otherwise the name is looked up case-insensitively and unknown names get Fallback.
func Resolve(explicit, name string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if color, ok := Lookup(name); ok {
		return color
	}
	return Fallback
}

// Lookup finds the table color for a platform name
func Lookup(name string) (string, bool) {
	color, ok := platformColors[strings.ToLower(strings.TrimSpace(name))]
	return color, ok
}
