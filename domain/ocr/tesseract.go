package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is a Recognizer backed by a gosseract client. Not safe for
// concurrent use; the detection pipeline is single-threaded by design.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract recognizer for the given language
// (e.g. "eng"). The caller must Close it to release the client.
func NewTesseract(language string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language %q: %w", language, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	return &Tesseract{client: client}, nil
}

// Recognize runs Tesseract over the PNG image and returns line-level spans
// in engine order. A frame with no readable text yields an empty slice,
// not an error.
func (t *Tesseract) Recognize(png []byte) ([]Span, error) {
	if err := t.client.SetImageFromBytes(png); err != nil {
		return nil, fmt.Errorf("set OCR image: %w", err)
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		// Line segmentation can fail on degenerate inputs; fall back to the
		// whole-image text as a single span.
		text, terr := t.client.Text()
		if terr != nil {
			return nil, fmt.Errorf("extract text: %w", terr)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
		return []Span{{Text: text, Confidence: 0}}, nil
	}
	spans := make([]Span, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		spans = append(spans, Span{Text: text, Confidence: b.Confidence / 100.0})
	}
	return spans, nil
}

// Close releases the underlying Tesseract client.
func (t *Tesseract) Close() error {
	return t.client.Close()
}

var _ Recognizer = (*Tesseract)(nil)
