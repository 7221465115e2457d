package slug

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Solar Microgrid", "solar-microgrid"},
		{"punctuation run", "Solar -- Microgrid!!", "solar-microgrid"},
		{"leading and trailing", "  Solar Microgrid  ", "solar-microgrid"},
		{"mixed case and digits", "Firmware V1.2", "firmware-v1-2"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
		{"unicode collapsed", "café au lait", "caf-au-lait"},
		{"already a slug", "solar-microgrid", "solar-microgrid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"Solar Microgrid", "Firmware V1.2", "a  b  c", "---x---", ""}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestSlugify_OutputShape(t *testing.T) {
	for _, in := range []string{"Hello, World!", "  --a--b--  ", "X", "漢字 test"} {
		got := Slugify(in)
		if len(got) > 0 && (got[0] == '-' || got[len(got)-1] == '-') {
			t.Errorf("Slugify(%q) = %q has a leading or trailing separator", in, got)
		}
		for i := 0; i < len(got); i++ {
			c := got[i]
			ok := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-'
			if !ok {
				t.Errorf("Slugify(%q) = %q contains invalid byte %q", in, got, c)
			}
			if c == '-' && i > 0 && got[i-1] == '-' {
				t.Errorf("Slugify(%q) = %q contains a double separator", in, got)
			}
		}
	}
}

func TestENSName(t *testing.T) {
	got := ENSName("solar-microgrid", "site-survey")
	want := "site-survey.solar-microgrid.hubpal.eth"
	if got != want {
		t.Errorf("ENSName = %q, want %q", got, want)
	}
}

func TestMirrorPath(t *testing.T) {
	got := MirrorPath("solar-microgrid", "site-survey")
	want := "/eth/solar-microgrid/site-survey"
	if got != want {
		t.Errorf("MirrorPath = %q, want %q", got, want)
	}
}
