package textsource

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// TesseractOCR recognizes text on a single rendered PDF page using the
// external pdftoppm (poppler-utils) and tesseract commands. Page scoping
// keeps the caller in control of how many pages get the expensive treatment.
type TesseractOCR struct {
	Log *logrus.Logger
	DPI int
}

func (t *TesseractOCR) RecognizePage(path string, page int) (string, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return "", fmt.Errorf("pdftoppm not available (install poppler-utils): %v", err)
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", fmt.Errorf("tesseract not available (install tesseract-ocr): %v", err)
	}

	dpi := t.DPI
	if dpi <= 0 {
		dpi = 300
	}

	tmpDir, err := os.MkdirTemp("", "ocr-page-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	pageStr := strconv.Itoa(page)
	imgPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.Command("pdftoppm", "-r", strconv.Itoa(dpi), "-png",
		"-f", pageStr, "-l", pageStr, path, imgPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm failed for page %d: %v (output: %s)", page, err, string(out))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to read temp dir: %v", err)
	}
	var imgFile string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			imgFile = filepath.Join(tmpDir, e.Name())
			break
		}
	}
	if imgFile == "" {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	// PSM 4: single column of variable-size text, which suits statements
	outBase := strings.TrimSuffix(imgFile, ".png") + "-ocr"
	cmd = exec.Command("tesseract", imgFile, outBase, "-l", "eng", "--psm", "4")
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("tesseract failed for page %d: %v (output: %s)", page, err, string(out))
	}

	data, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("tesseract output missing for page %d: %v", page, err)
	}
	return strings.TrimSpace(string(data)), nil
}
