package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// cssOnlyNames are CSS colour keywords missing from the SVG 1.1 table.
// An empty value means the keyword is valid but sets no foreground.
var cssOnlyNames = map[string]string{
	"rebeccapurple": "#663399",
	"transparent":   "",
	"currentcolor":  "",
}

// IsValidColor reports whether s is a CSS colour: a named colour, a hex
// colour (#rgb, #rgba, #rrggbb, #rrggbbaa) or an rgb(), rgba(), hsl() or
// hsla() function
func IsValidColor(s string) bool {
	_, ok := ResolveColor(s)
	return ok
}

// ResolveColor converts a CSS colour value to the #rrggbb form understood by
// terminal renderers. Alpha is dropped. transparent and currentColor are
// valid and resolve to "", meaning no foreground colour.
func ResolveColor(s string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(s))
	if value == "" {
		return "", false
	}

	if strings.HasPrefix(value, "#") {
		return resolveHex(value[1:])
	}
	if strings.Contains(value, "(") {
		return resolveFunction(value)
	}

	if hex, ok := cssOnlyNames[value]; ok {
		return hex, true
	}
	rgba, ok := colornames.Map[value]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B), true
}

func resolveHex(hex string) (string, bool) {
	if !isHex(hex) {
		return "", false
	}
	switch len(hex) {
	case 3, 4:
		return fmt.Sprintf("#%c%c%c%c%c%c", hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]), true
	case 6:
		return "#" + hex, true
	case 8:
		return "#" + hex[:6], true
	}
	return "", false
}

// resolveFunction parses rgb(), rgba(), hsl() and hsla() in both the comma
// and the space separated syntax, e.g. rgb(255 0 0 / 50%)
func resolveFunction(value string) (string, bool) {
	open := strings.IndexByte(value, '(')
	if !strings.HasSuffix(value, ")") {
		return "", false
	}
	name := strings.TrimSpace(value[:open])
	args := strings.Fields(strings.NewReplacer(",", " ", "/", " ").Replace(value[open+1 : len(value)-1]))
	if len(args) != 3 && len(args) != 4 {
		return "", false
	}
	if len(args) == 4 {
		if _, ok := parseAlpha(args[3]); !ok {
			return "", false
		}
	}

	switch name {
	case "rgb", "rgba":
		var channels [3]float64
		for i, arg := range args[:3] {
			v, ok := parseChannel(arg)
			if !ok {
				return "", false
			}
			channels[i] = v
		}
		return colorful.Color{R: channels[0], G: channels[1], B: channels[2]}.Clamped().Hex(), true

	case "hsl", "hsla":
		hue, ok := parseHue(args[0])
		if !ok {
			return "", false
		}
		sat, ok := parsePercent(args[1])
		if !ok {
			return "", false
		}
		light, ok := parsePercent(args[2])
		if !ok {
			return "", false
		}
		return colorful.Hsl(hue, clamp01(sat), clamp01(light)).Clamped().Hex(), true
	}
	return "", false
}

// parseChannel reads an rgb() channel (0-255 or a percentage) as 0-1
func parseChannel(arg string) (float64, bool) {
	if strings.HasSuffix(arg, "%") {
		return parsePercent(arg)
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(v / 255), true
}

// parsePercent reads a percentage, or a bare number, as 0-1
func parsePercent(arg string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

// parseHue reads a hue in degrees, normalised to [0, 360)
func parseHue(arg string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "deg"), 64)
	if err != nil {
		return 0, false
	}
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v, true
}

// parseAlpha reads an alpha value given as 0-1 or a percentage
func parseAlpha(arg string) (float64, bool) {
	if strings.HasSuffix(arg, "%") {
		return parsePercent(arg)
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
