package item

import "strings"

// Colors is the palette of dye colours used to recognise coloured block
// variant families such as white_wool / white_carpet.
var Colors = []string{
	"white",
	"light_gray",
	"gray",
	"black",
	"brown",
	"red",
	"orange",
	"yellow",
	"lime",
	"green",
	"cyan",
	"light_blue",
	"blue",
	"purple",
	"magenta",
	"pink",
}

// HasColor reports whether s contains any palette entry as a substring.
// A nil palette means [Colors].
//
// Matching is by substring, so "redstone" counts as coloured.
func HasColor(s string, palette []string) bool {
	if palette == nil {
		palette = Colors
	}
	for _, c := range palette {
		if c != "" && strings.Contains(s, c) {
			return true
		}
	}
	return false
}
