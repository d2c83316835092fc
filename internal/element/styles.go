// internal/element/styles.go
package element

import (
	"fmt"
	"regexp"
	"strings"
)

// TextStyle is the styling applied to the embedded input's text.
type TextStyle struct {
	FontSize    string `json:"font_size,omitempty"`
	Color       string `json:"color,omitempty"`
	FontFamily  string `json:"font_family,omitempty"`
	Placeholder struct {
		FontSize   string `json:"font_size,omitempty"`
		Color      string `json:"color,omitempty"`
		FontFamily string `json:"font_family,omitempty"`
	} `json:"placeholder,omitempty"`
}

// StyleSpec is the provider-facing style configuration for a card element.
type StyleSpec struct {
	Base    TextStyle `json:"base"`
	Invalid TextStyle `json:"invalid,omitempty"`
}

// ComputedStyle carries the resolved CSS of the input the element replaces,
// plus the document fallback font used when the input's family is unusable.
type ComputedStyle struct {
	Color              string
	FontSize           string
	FontFamily         string
	FallbackFontFamily string
}

// Font families containing markup or shell-unsafe characters are rejected
// rather than forwarded into the provider iframe.
var unsafeFontFamily = regexp.MustCompile("[“”<>!@$%^&*=~`|{}\\[\\]]")

// DefaultStyle derives element styles from the surrounding input when the
// merchant configured none.
func DefaultStyle(in ComputedStyle) StyleSpec {
	var style StyleSpec
	style.Base.FontSize = in.FontSize
	style.Base.Color = in.Color
	style.Base.Placeholder.FontSize = in.FontSize

	if family := sanitizeFontFamily(in.FontFamily, in.FallbackFontFamily); family != "" {
		style.Base.FontFamily = family
		style.Base.Placeholder.FontFamily = family
	}

	return style
}

// sanitizeFontFamily returns a safe font-family value or "" when neither
// the input's family nor the fallback passes the filter. "MS Shell Dlg" is
// a Windows substitution artifact, never a real theme choice.
func sanitizeFontFamily(family, fallback string) string {
	if unsafeFontFamily.MatchString(family) || strings.Contains(family, "MS Shell Dlg") {
		family = fallback
	}
	if unsafeFontFamily.MatchString(family) {
		return ""
	}
	return family
}

// StyleFromCSSVars builds a StyleSpec from a theme's CSS variable set
// (modern markup mode). The placeholder reuses the text color at half
// opacity, matching the renderer's own inputs.
func StyleFromCSSVars(vars map[string]string) StyleSpec {
	textColor := vars["field-text-color"]
	fontSize := vars["field-size-font-size"]

	var style StyleSpec
	style.Base.Color = textColor
	style.Base.FontSize = fontSize
	style.Base.Placeholder.Color = colorWithOpacity(textColor, 0.5)
	style.Base.Placeholder.FontSize = fontSize
	style.Invalid.Color = textColor

	return style
}

// colorWithOpacity converts #rgb / #rrggbb to an rgba() value with the
// given alpha. Non-hex values are returned unchanged.
func colorWithOpacity(color string, opacity float64) string {
	hex := strings.TrimPrefix(color, "#")
	if hex == color {
		return color
	}

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color
	}

	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, g, b, opacity)
}
