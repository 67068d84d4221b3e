package page

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lucasb-eyer/go-colorful"
)

// inlineStyle parses an element's style attribute into a property map.
// Property names are lowercased; values keep their original case apart
// from surrounding whitespace.
func inlineStyle(s *goquery.Selection) map[string]string {
	props := map[string]string{}
	attr, ok := s.Attr("style")
	if !ok {
		return props
	}
	for _, decl := range strings.Split(attr, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name != "" && value != "" {
			props[name] = value
		}
	}
	return props
}

// backgroundImageURL extracts the URL from a background-image declaration
// value such as `url("banner.png")`. Gradient and other non-url values
// yield "".
func backgroundImageURL(value string) string {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(strings.ToLower(v), "url(") || !strings.HasSuffix(v, ")") {
		return ""
	}
	inner := strings.TrimSpace(v[4 : len(v)-1])
	inner = strings.Trim(inner, `"'`)
	return inner
}

// namedColors covers the handful of keyword colors that show up in
// practice on page backgrounds.
var namedColors = map[string]string{
	"white":  "#ffffff",
	"black":  "#000000",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"gray":   "#808080",
	"grey":   "#808080",
	"silver": "#c0c0c0",
}

// parseCSSColor parses a CSS color value: #rgb, #rrggbb, rgb(r, g, b) or
// a known keyword. The second return is false for anything else
// (including rgba with transparency, which a background composite cannot
// honor anyway).
func parseCSSColor(value string) (colorful.Color, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return colorful.Color{}, false
	}

	if hex, ok := namedColors[v]; ok {
		v = hex
	}

	if strings.HasPrefix(v, "#") {
		if len(v) == 4 { // #rgb -> #rrggbb
			v = "#" + strings.Repeat(string(v[1]), 2) +
				strings.Repeat(string(v[2]), 2) +
				strings.Repeat(string(v[3]), 2)
		}
		c, err := colorful.Hex(v)
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}

	if strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")") {
		parts := strings.Split(v[4:len(v)-1], ",")
		if len(parts) != 3 {
			return colorful.Color{}, false
		}
		var ch [3]float64
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return colorful.Color{}, false
			}
			ch[i] = float64(n) / 255
		}
		return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, true
	}

	return colorful.Color{}, false
}
