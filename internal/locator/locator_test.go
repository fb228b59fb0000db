package locator

import "testing"

func TestResolve(t *testing.T) {
	const base = "https://api.example.com"

	tests := []struct {
		name    string
		base    string
		segment string
		loc     string
		want    string
	}{
		{"empty", base, "assets", "", ""},
		{"whitespace", base, "assets", "   ", ""},
		{"https unchanged", base, "assets", "https://cdn.example.com/a.mp3", "https://cdn.example.com/a.mp3"},
		{"http unchanged", base, "assets", "http://cdn.example.com/a.mp3", "http://cdn.example.com/a.mp3"},
		{"file unchanged", base, "assets", "file:///music/a.mp3", "file:///music/a.mp3"},
		{"other scheme unchanged", base, "assets", "s3://bucket/a.mp3", "s3://bucket/a.mp3"},
		{"bare filename", base, "assets", "a.mp3", base + "/assets/a.mp3"},
		{"assets prefix", base, "assets", "assets/a.mp3", base + "/assets/a.mp3"},
		{"leading slash assets prefix", base, "assets", "/assets/a.mp3", base + "/assets/a.mp3"},
		{"leading slash filename", base, "assets", "/a.mp3", base + "/assets/a.mp3"},
		{"nested path", base, "assets", "covers/a.jpg", base + "/assets/covers/a.jpg"},
		{"base trailing slash", base + "/", "assets", "a.mp3", base + "/assets/a.mp3"},
		{"default segment", base, "", "assets/a.mp3", base + "/assets/a.mp3"},
		{"custom segment", base, "/media/", "/media/a.mp3", base + "/media/a.mp3"},
		{"custom segment bare", base, "media", "a.mp3", base + "/media/a.mp3"},
		{"base with path", base + "/v1", "assets", "a.mp3", base + "/v1/assets/a.mp3"},
		{"colon in filename", base, "assets", "track:1.mp3", base + "/assets/track:1.mp3"},
		{"colon in prefixed filename", base, "assets", "assets/track:1.mp3", base + "/assets/track:1.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.base, tt.segment, tt.loc)
			if got != tt.want {
				t.Errorf("Resolve(%q, %q, %q) = %q, want %q", tt.base, tt.segment, tt.loc, got, tt.want)
			}
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	const base = "https://api.example.com"
	for _, loc := range []string{"a.mp3", "assets/a.mp3", "/assets/a.mp3"} {
		once := Resolve(base, "assets", loc)
		twice := Resolve(base, "assets", once)
		if once != twice {
			t.Errorf("Resolve not idempotent for %q: %q then %q", loc, once, twice)
		}
	}
}

func TestIsAbsolute(t *testing.T) {
	tests := []struct {
		loc  string
		want bool
	}{
		{"https://x/a.mp3", true},
		{"file:///a.mp3", true},
		{"a.mp3", false},
		{"/assets/a.mp3", false},
		{`C:\music\a.mp3`, false},
		{"HTTPS://x/a.mp3", true},
		{"s3://bucket/a.mp3", true},
		{"track:1.mp3", false},
		{"mailto:someone", false},
	}
	for _, tt := range tests {
		if got := IsAbsolute(tt.loc); got != tt.want {
			t.Errorf("IsAbsolute(%q) = %v, want %v", tt.loc, got, tt.want)
		}
	}
}
