package captions

import (
	"fmt"
	"sort"
	"strings"

	"sceneforge/internal/services"
)

// Style describes a burn-in caption look. Colours are #RRGGBB.
type Style struct {
	FontName      string
	FontSize      int
	PrimaryColour string
	BackColour    string
	BackOpacity   float64
	Boxed         bool
	Outlined      bool
	OutlineColour string
}

var styles = map[string]Style{
	"default": {
		FontName:      "Arial",
		FontSize:      16,
		PrimaryColour: "#FFFFFF",
		BackColour:    "#000000",
		BackOpacity:   0.7,
		Boxed:         true,
		Outlined:      true,
		OutlineColour: "#000000",
	},
	"modern": {
		FontName:      "Helvetica",
		FontSize:      18,
		PrimaryColour: "#FFFFFF",
		BackColour:    "#1F2937",
		BackOpacity:   0.8,
		Boxed:         true,
		Outlined:      true,
		OutlineColour: "#374151",
	},
	"minimal": {
		FontName:      "Arial",
		FontSize:      14,
		PrimaryColour: "#FFFFFF",
		Outlined:      true,
		OutlineColour: "#000000",
	},
	"bold": {
		FontName:      "Arial Black",
		FontSize:      20,
		PrimaryColour: "#FFFF00",
		BackColour:    "#000000",
		BackOpacity:   0.9,
		Boxed:         true,
		Outlined:      true,
		OutlineColour: "#FF0000",
	},
	"elegant": {
		FontName:      "Times New Roman",
		FontSize:      16,
		PrimaryColour: "#F8F9FA",
		BackColour:    "#2C3E50",
		BackOpacity:   0.75,
		Boxed:         true,
	},
}

// StyleNames lists the available style names, sorted.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupStyle resolves a style by name.
func LookupStyle(name string) (Style, error) {
	style, ok := styles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Style{}, services.Wrap(services.ErrValidation, "captions", "lookup_style",
			fmt.Sprintf("unknown caption style %q", name), nil)
	}
	return style, nil
}

// ForceStyle renders the style as a libass force_style override string.
func (s Style) ForceStyle() string {
	parts := []string{
		fmt.Sprintf("FontName=%s", s.FontName),
		fmt.Sprintf("FontSize=%d", s.FontSize),
		fmt.Sprintf("PrimaryColour=%s", assColour(s.PrimaryColour, 1.0)),
		"Alignment=2",
	}
	if s.Outlined {
		parts = append(parts,
			fmt.Sprintf("OutlineColour=%s", assColour(s.OutlineColour, 1.0)),
			"Outline=1",
		)
	} else {
		parts = append(parts, "Outline=0")
	}
	if s.Boxed {
		parts = append(parts,
			fmt.Sprintf("BackColour=%s", assColour(s.BackColour, s.BackOpacity)),
			"BorderStyle=4",
		)
	} else {
		parts = append(parts, "BorderStyle=1")
	}
	return strings.Join(parts, ",")
}

// assColour converts #RRGGBB plus opacity into libass &HAABBGGRR form, where
// alpha 00 is opaque and FF fully transparent.
func assColour(hex string, opacity float64) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		hex = "FFFFFF"
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	alpha := int((1 - opacity) * 255)
	rr, gg, bb := hex[0:2], hex[2:4], hex[4:6]
	return fmt.Sprintf("&H%02X%s%s%s", alpha, strings.ToUpper(bb), strings.ToUpper(gg), strings.ToUpper(rr))
}
