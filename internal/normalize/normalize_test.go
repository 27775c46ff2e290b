package normalize

import "testing"

func TestCanonical_Aliases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dnb", "Drum & Bass"},
		{"DNB", "Drum & Bass"},
		{"d&b", "Drum & Bass"},
		{"D&B", "Drum & Bass"},
		{"drum n bass", "Drum & Bass"},
		{"Drum N Bass", "Drum & Bass"},
		{"drum and bass", "Drum & Bass"},
		{"d & b", "Drum & Bass"},
		{"d n b", "Drum & Bass"},
		{"  dnb  ", "Drum & Bass"},
		{"dubstep", "Dubstep"},
		{"DUBSTEP", "Dubstep"},
		{"140", "Dubstep"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonical_TitleCaseFallback(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jungle", "Jungle"},
		{"UK GARAGE", "Uk Garage"},
		{"deep house", "Deep House"},
		{"  techno  ", "Techno"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonical_Empty(t *testing.T) {
	if got := Canonical("   "); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	for _, in := range []string{"dnb", "Jungle", "140", "deep house"} {
		once := Canonical(in)
		twice := Canonical(once)
		if once != twice {
			t.Errorf("Canonical not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fabric", "Fabric"},
		{"corsica studios", "Corsica Studios"},
		{"  THE CAUSE ", "The Cause"},
		// No alias table for venues: "dnb" stays a plain title.
		{"dnb", "Dnb"},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	if Key("Drum & Bass") != Key("  drum & bass ") {
		t.Error("Key should be case and whitespace insensitive")
	}
	if Key("Fabric") == Key("Corsica Studios") {
		t.Error("distinct names should have distinct keys")
	}
}
