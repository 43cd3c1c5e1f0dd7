package textsource

import (
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// PDFReader reads the embedded text layer of a PDF. It tries the structured
// library first, with the external pdftotext command (poppler-utils) as a
// fallback for encodings the library cannot decode. Unreadable output is
// never returned; a document with no usable text layer yields an empty
// string so the caller's OCR fallback can take over.
type PDFReader struct {
	Log *logrus.Logger
}

func (r *PDFReader) ExtractText(path string) (string, error) {
	text, libErr := extractWithLibrary(path)
	if libErr == nil && isReadableText(text) {
		return text, nil
	}

	text, popplerErr := extractWithPdftotext(path)
	if popplerErr == nil && isReadableText(text) {
		return text, nil
	}

	if r.Log != nil {
		r.Log.WithFields(logrus.Fields{"library": libErr, "pdftotext": popplerErr}).
			Debug("no readable text layer")
	}
	if libErr != nil && popplerErr != nil {
		return "", fmt.Errorf("PDF text extraction failed: %v", libErr)
	}
	// Extraction ran but produced garbage or nothing. Not an error: the
	// document is likely scanned, which is the OCR path's job.
	return "", nil
}

// extractWithLibrary uses ledongthuc/pdf, trying row-based extraction first
// and coordinate-based row reconstruction second. The library panics on some
// malformed documents, so both methods run under recover.
func extractWithLibrary(path string) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PDF library crashed: %v", rec)
		}
	}()

	f, reader, openErr := pdf.Open(path)
	if openErr != nil {
		return "", openErr
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	if text := extractByRow(reader, numPages); isReadableText(text) {
		return text, nil
	}
	if text := extractByContent(reader, numPages); isReadableText(text) {
		return text, nil
	}
	if plain, plainErr := reader.GetPlainText(); plainErr == nil {
		data, readErr := io.ReadAll(plain)
		if readErr == nil {
			return strings.TrimSpace(string(data)), nil
		}
	}
	return "", nil
}

func extractByRow(reader *pdf.Reader, numPages int) string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, "\n")
}

// extractByContent works from raw text objects, grouping them into rows by Y
// coordinate and ordering each row by X. Wide X gaps become column breaks.
func extractByContent(reader *pdf.Reader, numPages int) string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rows := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], textItem{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		// PDF Y runs bottom to top
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			items := rows[y]
			sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, "\n")
}

func extractWithPdftotext(path string) (string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("pdftotext not available: %v", err)
	}
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %v", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// commonWords that appear in virtually every bank statement. Extracted text
// containing none of them is treated as garbage.
var commonWords = []string{
	"bank", "account", "balance", "date", "statement", "transaction",
	"amount", "credit", "debit", "upi", "withdrawal", "deposit",
	"period", "opening", "closing", "transfer", "paid", "total",
}

// isReadableText gates extraction output: enough characters, a high ratio of
// readable ASCII, and at least one recognizable statement word. Identity
// encoded fonts otherwise produce plausible-looking garbage.
func isReadableText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= 50 {
		return false
	}
	if textQuality(trimmed) <= 0.6 {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, word := range commonWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of plain readable characters to total. The
// check is deliberately strict ASCII; unicode.IsLetter admits the accented
// garbage that broken font maps produce.
func textQuality(text string) float64 {
	total := 0
	readable := 0
	for _, c := range text {
		total++
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || unicode.IsSpace(c) ||
			strings.ContainsRune(`.,-/:;()'"@#&%!?+=*₹$`, c) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
