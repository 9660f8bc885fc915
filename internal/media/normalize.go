package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"govreport/internal/llm"
)

// ErrEmptyInput marks input with no usable text after normalization.
// It is rejected before any inference call.
var ErrEmptyInput = errors.New("empty input")

const defaultImageMIME = "image/jpeg"

// NormalizeText trims the submitted text.
func NormalizeText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyInput
	}
	return s, nil
}

// NormalizeTranscript trims recognized speech and upper-cases the first
// rune; transcription engines tend to emit lowercase sentence starts.
func NormalizeTranscript(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyInput
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:], nil
}

// ImageParts builds the multimodal message content for one image file:
// an optional caption text part followed by the base64-encoded image.
func ImageParts(path, caption string) ([]llm.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	var parts []llm.Part
	if caption = strings.TrimSpace(caption); caption != "" {
		parts = append(parts, llm.Part{Text: caption})
	}
	parts = append(parts, llm.Part{Image: &llm.Image{
		MIME: MIMEForFile(path),
		Data: base64.StdEncoding.EncodeToString(data),
	}})
	return parts, nil
}

// MIMEForFile guesses a MIME type from the file extension.
func MIMEForFile(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" {
		return defaultImageMIME
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// RenderImage is the text stand-in logged in place of image bytes, so
// logs stay text-only and bounded.
func RenderImage(filename, caption string) string {
	return fmt.Sprintf("[Image: %s] Caption: %s", filename, strings.TrimSpace(caption))
}

// RenderAudioVideo is the text stand-in logged for audio and video input.
func RenderAudioVideo(filename string) string {
	return fmt.Sprintf("[Audio/Video: %s]", filename)
}
