// Package vision turns receipt images into lines of recognized text.
package vision

import "context"

// TextRecognizer extracts text lines from image bytes (PNG or JPEG).
// Implementations return the lines top to bottom; an image with no readable
// text yields an empty slice, not an error.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, image []byte) ([]string, error)
}
