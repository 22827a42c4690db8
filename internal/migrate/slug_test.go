package migrate

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Qué pasa, amigo", "que-pasa-amigo"},
		{"Überraschung!", "uberraschung"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"already-a-slug", "already-a-slug"},
		{"MixedCASE-2024", "mixedcase-2024"},
		{"---", ""},
		{"écran détaché", "ecran-detache"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
