// Package textsource acquires the raw text of an uploaded document. The text
// layer of the PDF is the primary source; OCR is a bounded fallback for
// scanned documents. The package never validates text quality beyond a
// heuristic triage.
package textsource

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// defaultMinTextLen is the threshold below which the text layer is
	// considered too thin and OCR is consulted.
	defaultMinTextLen = 200
	// defaultOCRPageCap bounds worst-case latency: only the first pages are
	// rendered and recognized.
	defaultOCRPageCap = 2
)

// LayerReader extracts the embedded text layer of a document.
type LayerReader interface {
	ExtractText(path string) (string, error)
}

// Recognizer runs optical character recognition on one rendered page.
type Recognizer interface {
	RecognizePage(path string, page int) (string, error)
}

// Service selects the best available text for a document. Injected readers
// make the selection rule testable with fakes.
type Service struct {
	Layer      LayerReader
	OCR        Recognizer
	Log        *logrus.Logger
	MinTextLen int
	OCRPages   int
}

// DocumentText returns the chosen text for the document at path.
//
// If the text layer yields at least MinTextLen characters it is returned
// as-is and OCR is never invoked. Otherwise the first OCRPages pages are
// recognized; the longer of the two candidates wins, and a short-but-nonempty
// OCR result is appended to the primary text instead of replacing it.
// Per-page OCR failures degrade to empty text and never propagate.
func (s *Service) DocumentText(path string) (string, error) {
	if s.Layer == nil {
		return "", fmt.Errorf("no text layer reader configured")
	}
	primary, err := s.Layer.ExtractText(path)
	if err != nil {
		return "", fmt.Errorf("text layer extraction failed: %w", err)
	}

	minLen := s.MinTextLen
	if minLen <= 0 {
		minLen = defaultMinTextLen
	}
	if len(strings.TrimSpace(primary)) >= minLen || s.OCR == nil {
		return primary, nil
	}

	log := s.logger()
	pageCap := s.OCRPages
	if pageCap <= 0 {
		pageCap = defaultOCRPageCap
	}

	var sb strings.Builder
	for page := 1; page <= pageCap; page++ {
		text, ocrErr := s.OCR.RecognizePage(path, page)
		if ocrErr != nil {
			log.WithError(ocrErr).WithField("page", page).Warn("OCR failed for page, continuing")
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
	secondary := sb.String()

	switch {
	case len(secondary) > len(primary):
		log.WithFields(logrus.Fields{"primary": len(primary), "ocr": len(secondary)}).
			Debug("using OCR text over thin text layer")
		return secondary, nil
	case len(secondary) > 0:
		return primary + "\n" + secondary, nil
	}
	return primary, nil
}

func (s *Service) logger() *logrus.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}
