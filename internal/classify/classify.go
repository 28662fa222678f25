// Package classify decides whether a file should be treated as conversion
// input. Two rules exist: extension-class matching (the class is inferred
// from the target output extension, so "-e mp4" selects all video files)
// and user-supplied regex matching against the file's base name.
package classify

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Sentinel errors returned when a matching rule cannot be constructed.
var (
	ErrUnknownExtension = errors.New("extension belongs to no known class")
	ErrInvalidPattern   = errors.New("invalid regex pattern")
)

// Class is an extension class (a named group of file extensions).
type Class int

const (
	ClassUnknown Class = iota
	ClassVideo
	ClassAudio
)

// String returns the class name for log output.
func (c Class) String() string {
	switch c {
	case ClassVideo:
		return "video"
	case ClassAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Known extensions per class, lowercase without leading dot. Every supported
// extension belongs to exactly one class. ogg *may* carry video but usually
// doesn't, so it is grouped with audio.
var (
	VideoExtensions = []string{"mp4", "avi", "mov", "mkv", "flv", "wmv", "m4v", "webm"}
	AudioExtensions = []string{"mp3", "m4a", "opus", "ape", "wav", "aac", "ogg", "oga", "aiff", "flac", "alac"}
)

var classByExt = func() map[string]Class {
	m := make(map[string]Class, len(VideoExtensions)+len(AudioExtensions))
	for _, e := range VideoExtensions {
		m[e] = ClassVideo
	}
	for _, e := range AudioExtensions {
		m[e] = ClassAudio
	}
	return m
}()

// ClassOf returns the class of an extension (case-insensitive, with or
// without leading dot), or ClassUnknown.
func ClassOf(ext string) Class {
	return classByExt[normalizeExt(ext)]
}

// KnownExtensions returns all supported extensions, video first then audio,
// for help text.
func KnownExtensions() []string {
	out := make([]string, 0, len(VideoExtensions)+len(AudioExtensions))
	out = append(out, VideoExtensions...)
	out = append(out, AudioExtensions...)
	return out
}

// Classifier reports whether a file path should be converted. Implementations
// are pure once constructed.
type Classifier interface {
	Accepts(path string) bool
}

// ExtensionClassifier accepts files whose extension belongs to the same
// class as the target output extension.
type ExtensionClassifier struct {
	class Class
}

// ByExtension builds an ExtensionClassifier from the target output extension.
// Fails with ErrUnknownExtension when the target belongs to no known class.
func ByExtension(targetExt string) (*ExtensionClassifier, error) {
	class := ClassOf(targetExt)
	if class == ClassUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, targetExt)
	}
	return &ExtensionClassifier{class: class}, nil
}

// Class returns the extension class this classifier matches.
func (c *ExtensionClassifier) Class() Class { return c.class }

// Accepts reports whether the path's extension (case-insensitive) is a
// member of the target extension's class. Files without an extension never
// match.
func (c *ExtensionClassifier) Accepts(path string) bool {
	return classByExt[normalizeExt(filepath.Ext(path))] == c.class
}

// RegexClassifier accepts files whose base name matches a user-supplied
// pattern. Matching is unanchored: anchor explicitly (^, $) to match the
// whole name. The full directory path is deliberately not consulted, so a
// pattern never matches because of where a file happens to live.
type RegexClassifier struct {
	re *regexp.Regexp
}

// ByRegex compiles pattern once. Fails with ErrInvalidPattern on malformed
// syntax.
func ByRegex(pattern string) (*RegexClassifier, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return &RegexClassifier{re: re}, nil
}

// Accepts reports whether the path's base name matches the pattern.
func (c *RegexClassifier) Accepts(path string) bool {
	return c.re.MatchString(filepath.Base(path))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
