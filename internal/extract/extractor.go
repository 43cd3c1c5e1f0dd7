package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/finwise/statement-extractor/internal/models"
)

// Extractor runs the heuristic pattern cascade over free-form statement text.
// It is stateless across calls; every invocation works on its own buffer.
type Extractor struct {
	Log *logrus.Logger
}

var lineStartsWithDate = regexp.MustCompile(`^\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}\b`)

// Extract turns a raw text blob into zero or more transactions, sorted
// ascending by timestamp. Lines that match no pattern, or whose date or amount
// will not parse, are dropped silently; extraction is best-effort.
func (e *Extractor) Extract(text string) []models.Transaction {
	log := e.logger()
	lines := strings.Split(text, "\n")

	var txns []models.Transaction
	for i := 0; i < len(lines); i++ {
		line := collapseSpaces(lines[i])
		if line == "" {
			continue
		}

		raw, ok := matchLine(line)
		if !ok && i+1 < len(lines) {
			// Wrapped descriptions: retry with the next line folded in, but only
			// when that line is not itself the start of another transaction.
			next := collapseSpaces(lines[i+1])
			if next != "" && !lineStartsWithDate.MatchString(next) {
				if merged, mok := matchLine(line + " " + next); mok {
					raw, ok = merged, true
					i++
				}
			}
		}
		if !ok {
			continue
		}

		txn, err := normalizeMatch(raw, genericSigns, raw.pattern == "ocr-loose")
		if err != nil {
			log.WithError(err).WithField("pattern", raw.pattern).Debug("discarding matched line")
			continue
		}
		txns = append(txns, txn)
	}

	if len(txns) == 0 {
		txns = e.looseScan(text)
	}

	sortByTimestamp(txns)
	return txns
}

// looseScan collapses all whitespace (line boundaries included) and sweeps the
// whole blob with the OCR-tolerant pattern. This recovers transactions from
// text whose line structure was destroyed upstream, at the cost of line
// fidelity.
func (e *Extractor) looseScan(text string) []models.Transaction {
	log := e.logger()
	collapsed := collapseSpaces(text)

	var txns []models.Transaction
	for _, m := range looseScanPattern.FindAllStringSubmatch(collapsed, -1) {
		raw := rawMatch{date: m[1], desc: m[2], amount: m[3], line: m[0], pattern: "ocr-loose"}
		txn, err := normalizeMatch(raw, genericSigns, true)
		if err != nil {
			log.WithError(err).Debug("discarding loose-scan match")
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

func (e *Extractor) logger() *logrus.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logrus.StandardLogger()
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRunPattern.ReplaceAllString(s, " "))
}

// sortByTimestamp is the only ordering guarantee the extractor provides;
// document order is not preserved. The sort is stable so repeated runs on the
// same input produce identical output.
func sortByTimestamp(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Timestamp < txns[j].Timestamp
	})
}
