package element

import "testing"

func TestDefaultStyle(t *testing.T) {
	style := DefaultStyle(ComputedStyle{
		Color:      "#32325d",
		FontSize:   "16px",
		FontFamily: "Inter, sans-serif",
	})

	if style.Base.Color != "#32325d" || style.Base.FontSize != "16px" {
		t.Errorf("base style not derived from computed style: %+v", style.Base)
	}
	if style.Base.FontFamily != "Inter, sans-serif" {
		t.Errorf("safe font family must pass through, got %q", style.Base.FontFamily)
	}
	if style.Base.Placeholder.FontSize != "16px" {
		t.Error("placeholder font size must mirror the input")
	}
}

func TestSanitizeFontFamily(t *testing.T) {
	cases := []struct {
		name     string
		family   string
		fallback string
		want     string
	}{
		{"safe", "Georgia, serif", "Arial", "Georgia, serif"},
		{"markup chars", `"x<script>"`, "Arial", "Arial"},
		{"ms shell dlg", "MS Shell Dlg \\2", "Helvetica", "Helvetica"},
		{"unsafe fallback too", "{bad}", "[worse]", ""},
	}

	for _, tc := range cases {
		if got := sanitizeFontFamily(tc.family, tc.fallback); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestStyleFromCSSVars(t *testing.T) {
	style := StyleFromCSSVars(map[string]string{
		"field-text-color":     "#102030",
		"field-size-font-size": "14px",
	})

	if style.Base.Color != "#102030" || style.Base.FontSize != "14px" {
		t.Errorf("unexpected base style: %+v", style.Base)
	}
	if style.Base.Placeholder.Color != "rgba(16, 32, 48, 0.5)" {
		t.Errorf("placeholder color = %q", style.Base.Placeholder.Color)
	}
	if style.Invalid.Color != "#102030" {
		t.Errorf("invalid color = %q", style.Invalid.Color)
	}
}

func TestColorWithOpacity(t *testing.T) {
	if got := colorWithOpacity("#fff", 0.5); got != "rgba(255, 255, 255, 0.5)" {
		t.Errorf("short hex: got %q", got)
	}
	if got := colorWithOpacity("tomato", 0.5); got != "tomato" {
		t.Errorf("named color must pass through, got %q", got)
	}
}
