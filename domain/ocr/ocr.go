// Package ocr provides text recognition over PNG-encoded images. The
// production implementation wraps a Tesseract client; consumers depend on
// the Recognizer interface so tests can substitute a fake.
package ocr

// Span is one recognized text fragment with its engine confidence in [0,1].
type Span struct {
	Text       string
	Confidence float64
}

// Recognizer extracts text spans from a PNG-encoded image. Spans are
// returned in the order the engine produced them; callers must not assume
// any additional sorting.
type Recognizer interface {
	Recognize(png []byte) ([]Span, error)
	Close() error
}
