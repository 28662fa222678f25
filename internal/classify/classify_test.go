package classify

import (
	"errors"
	"testing"
)

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want Class
	}{
		{"video plain", "mp4", ClassVideo},
		{"video with dot", ".mkv", ClassVideo},
		{"video uppercase", "MOV", ClassVideo},
		{"audio plain", "flac", ClassAudio},
		{"audio mixed case", ".Mp3", ClassAudio},
		{"unknown", "txt", ClassUnknown},
		{"empty", "", ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassOf(tt.ext); got != tt.want {
				t.Errorf("ClassOf(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestEveryExtensionBelongsToExactlyOneClass(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range KnownExtensions() {
		if seen[e] {
			t.Errorf("extension %q appears in more than one class", e)
		}
		seen[e] = true
		if ClassOf(e) == ClassUnknown {
			t.Errorf("extension %q has no class", e)
		}
	}
}

func TestByExtension_UnknownTarget(t *testing.T) {
	if _, err := ByExtension("txt"); !errors.Is(err, ErrUnknownExtension) {
		t.Errorf("ByExtension(txt) error = %v, want ErrUnknownExtension", err)
	}
	if _, err := ByExtension(""); !errors.Is(err, ErrUnknownExtension) {
		t.Errorf("ByExtension(\"\") error = %v, want ErrUnknownExtension", err)
	}
}

func TestExtensionClassifier_VideoTarget(t *testing.T) {
	c, err := ByExtension("mp4")
	if err != nil {
		t.Fatalf("ByExtension: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/media/in/a/b.mov", true},
		{"/media/in/d.mkv", true},
		{"/media/in/UPPER.AVI", true},
		{"/media/in/a/c.txt", false},
		{"/media/in/song.mp3", false}, // audio does not match a video target
		{"/media/in/noext", false},
		{"/media/in/.hidden", false},
	}
	for _, tt := range tests {
		if got := c.Accepts(tt.path); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestExtensionClassifier_AudioTarget(t *testing.T) {
	c, err := ByExtension("mp3")
	if err != nil {
		t.Fatalf("ByExtension: %v", err)
	}
	if !c.Accepts("song.flac") {
		t.Error("flac should match an audio target")
	}
	if c.Accepts("movie.mkv") {
		t.Error("mkv should not match an audio target")
	}
	if c.Class() != ClassAudio {
		t.Errorf("Class() = %v, want ClassAudio", c.Class())
	}
}

func TestByRegex_InvalidPattern(t *testing.T) {
	if _, err := ByRegex("["); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("ByRegex([) error = %v, want ErrInvalidPattern", err)
	}
}

func TestRegexClassifier_MatchesBasename(t *testing.T) {
	c, err := ByRegex(`.*\.(flac|wav)$`)
	if err != nil {
		t.Fatalf("ByRegex: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/music/song.flac", true},
		{"/music/deep/nested/song.wav", true},
		{"/music/song.mp3", false},
		{"/music/flac/song.mp3", false}, // directory names are not matched
	}
	for _, tt := range tests {
		if got := c.Accepts(tt.path); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
