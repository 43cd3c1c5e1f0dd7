package textsource

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayer struct {
	text string
	err  error
}

func (f fakeLayer) ExtractText(string) (string, error) { return f.text, f.err }

type fakeOCR struct {
	pages map[int]string
	errs  map[int]error
	calls int
}

func (f *fakeOCR) RecognizePage(_ string, page int) (string, error) {
	f.calls++
	if err := f.errs[page]; err != nil {
		return "", err
	}
	return f.pages[page], nil
}

func TestDocumentTextPrimaryAboveThresholdSkipsOCR(t *testing.T) {
	primary := strings.Repeat("a", 300)
	ocr := &fakeOCR{pages: map[int]string{1: "should never be used"}}
	s := &Service{Layer: fakeLayer{text: primary}, OCR: ocr}

	got, err := s.DocumentText("statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, primary, got)
	assert.Zero(t, ocr.calls)
}

func TestDocumentTextThinPrimaryPrefersLongerOCR(t *testing.T) {
	primary := strings.Repeat("a", 50)
	ocrText := strings.Repeat("b", 800)
	ocr := &fakeOCR{pages: map[int]string{1: ocrText}}
	s := &Service{Layer: fakeLayer{text: primary}, OCR: ocr}

	got, err := s.DocumentText("statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, ocrText, got)
}

func TestDocumentTextShortOCRAppendsToPrimary(t *testing.T) {
	primary := strings.Repeat("a", 50)
	ocr := &fakeOCR{pages: map[int]string{1: "tiny"}}
	s := &Service{Layer: fakeLayer{text: primary}, OCR: ocr}

	got, err := s.DocumentText("statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, primary+"\ntiny", got)
}

func TestDocumentTextOCRCappedAtTwoPages(t *testing.T) {
	ocr := &fakeOCR{pages: map[int]string{1: "one", 2: "two", 3: "three"}}
	s := &Service{Layer: fakeLayer{text: "thin"}, OCR: ocr}

	got, err := s.DocumentText("statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, ocr.calls)
	assert.NotContains(t, got, "three")
}

func TestDocumentTextOCRErrorsDegradeToPrimary(t *testing.T) {
	ocr := &fakeOCR{errs: map[int]error{
		1: errors.New("tesseract exploded"),
		2: errors.New("tesseract exploded again"),
	}}
	primary := "short primary text"
	s := &Service{Layer: fakeLayer{text: primary}, OCR: ocr}

	got, err := s.DocumentText("statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, primary, got)
}

func TestDocumentTextPartialOCRFailure(t *testing.T) {
	ocr := &fakeOCR{
		pages: map[int]string{2: strings.Repeat("b", 500)},
		errs:  map[int]error{1: errors.New("page render failed")},
	}
	s := &Service{Layer: fakeLayer{text: "thin"}, OCR: ocr}

	got, err := s.DocumentText("statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("b", 500), got)
}

func TestDocumentTextLayerErrorIsFatal(t *testing.T) {
	s := &Service{Layer: fakeLayer{err: errors.New("corrupt file")}}

	_, err := s.DocumentText("statement.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt file")
}

func TestDocumentTextNoOCRConfigured(t *testing.T) {
	s := &Service{Layer: fakeLayer{text: "thin"}}

	got, err := s.DocumentText("statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, "thin", got)
}

func TestIsReadableTextGate(t *testing.T) {
	statement := strings.Repeat("Account balance statement for the period with transactions. ", 3)
	assert.True(t, isReadableText(statement))

	// long but without a single statement word
	assert.False(t, isReadableText(strings.Repeat("lorem ipsum dolor sit amet xyz. ", 5)))
	// too short
	assert.False(t, isReadableText("bank"))
	// binary-looking garbage
	assert.False(t, isReadableText(strings.Repeat("\x01\x02\x03\x04账户", 40)))
}
