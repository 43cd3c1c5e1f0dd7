package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/finwise/statement-extractor/internal/models"
)

// maxMerchantLen caps the cleaned description length.
const maxMerchantLen = 100

// Candidate date layouts, tried in order. Day-first wins over month-first when
// both would parse.
var dateLayouts = []string{"02/01/2006", "02/01/06", "01/02/2006"}

var dateSeparators = strings.NewReplacer("-", "/", ".", "/")

// parseDateToken converts a date-like token to epoch milliseconds at local
// midnight. Statements carry no time of day.
func parseDateToken(tok string) (int64, error) {
	tok = dateSeparators.Replace(strings.TrimSpace(tok))
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, tok, time.Local); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unparsable date token %q", tok)
}

var (
	amountJunkPattern  = regexp.MustCompile(`(?i)rs\.?|inr|[₹,\s]`)
	ocrDecimalPattern  = regexp.MustCompile(`(\d)[;:](\d)`)
	trailingDotPattern = regexp.MustCompile(`[.;:]+$`)
)

// parseAmountToken strips currency markers and grouping from a numeric token
// and parses it. Tesseract output sometimes carries ; or : where the decimal
// point should be; those are repaired first.
func parseAmountToken(tok string) (float64, error) {
	cleaned := amountJunkPattern.ReplaceAllString(tok, "")
	cleaned = ocrDecimalPattern.ReplaceAllString(cleaned, "$1.$2")
	cleaned = trailingDotPattern.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount token %q", tok)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable amount token %q: %w", tok, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite amount token %q", tok)
	}
	return v, nil
}

// signKeywords resolves transaction direction from keywords on the source line.
type signKeywords struct {
	debit  *regexp.Regexp
	credit *regexp.Regexp
}

var genericSigns = signKeywords{
	debit:  regexp.MustCompile(`(?i)\b(dr|debit|withdrawal|paid|purchase)\b`),
	credit: regexp.MustCompile(`(?i)\b(cr|credit|received|refund)\b`),
}

// statementSigns is the fixed-layout variant; statements phrase directions as
// "deducted"/"added" in narration text.
var statementSigns = signKeywords{
	debit:  regexp.MustCompile(`(?i)\b(dr|debit|withdrawal|paid|purchase|deducted)\b`),
	credit: regexp.MustCompile(`(?i)\b(cr|credit|received|refund|added)\b`),
}

// apply forces the sign when exactly one keyword set is present. When both or
// neither match, the captured sign is kept as-is; unlabeled lines stay
// ambiguous rather than being guessed at.
func (k signKeywords) apply(line string, amount float64) float64 {
	d := k.debit.MatchString(line)
	c := k.credit.MatchString(line)
	switch {
	case d && !c:
		return -math.Abs(amount)
	case c && !d:
		return math.Abs(amount)
	}
	return amount
}

// classifyMode scans the line for rail keywords in fixed priority order.
func classifyMode(line string) models.TransactionMode {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "upi"):
		return models.ModeUPI
	case strings.Contains(lower, "neft"):
		return models.ModeNEFT
	case strings.Contains(lower, "imps"):
		return models.ModeIMPS
	case strings.Contains(lower, "rtgs"):
		return models.ModeRTGS
	case strings.Contains(lower, "atm"):
		return models.ModeATM
	case strings.Contains(lower, "pos"), strings.Contains(lower, "card"):
		return models.ModePOS
	case strings.Contains(lower, "cash"):
		return models.ModeCash
	case strings.Contains(lower, "cheque"), strings.Contains(lower, "chq"):
		return models.ModeCheque
	}
	return models.ModeBankTransfer
}

var upiHandlePattern = regexp.MustCompile(`[a-zA-Z0-9][a-zA-Z0-9._-]*@[a-zA-Z][a-zA-Z0-9]+`)

// extractUPIHandle returns the first local@domain shaped handle on the line.
func extractUPIHandle(line string) string {
	return upiHandlePattern.FindString(line)
}

// Labeled account-number patterns, tried in order. The bare digit run is only
// consulted in loose mode; it fires on any long number.
var (
	accountLabeledPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)a/c\s*(?:no\.?)?\s*[:.]?\s*[xX*]*(\d{4,})`),
		regexp.MustCompile(`(?i)account\s*(?:no\.?|number)?\s*[:.]?\s*[xX*]*(\d{4,})`),
		regexp.MustCompile(`(?i)acct\.?\s*[:.]?\s*(\d{4,})`),
	}
	accountBarePattern = regexp.MustCompile(`\b(\d{6,})\b`)
)

func extractAccountNumber(line string, loose bool) string {
	for _, p := range accountLabeledPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	if loose {
		if m := accountBarePattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

var (
	descJunkPattern = regexp.MustCompile(`[^\w@.,_\-()/\\& ]+`)
	spaceRunPattern = regexp.MustCompile(`\s+`)
	descTrimPattern = regexp.MustCompile(`^[-/\s]+|[-/\s]+$`)
)

// cleanDescription normalizes whitespace, strips characters outside the
// identifier-friendly whitelist and caps the length.
func cleanDescription(s string) string {
	s = descJunkPattern.ReplaceAllString(s, " ")
	s = spaceRunPattern.ReplaceAllString(strings.TrimSpace(s), " ")
	s = descTrimPattern.ReplaceAllString(s, "")
	if len(s) > maxMerchantLen {
		s = strings.TrimSpace(s[:maxMerchantLen])
	}
	return s
}

// normalizeMatch converts a raw pattern match into a Transaction, or reports
// why it must be discarded. Discarded matches never abort extraction.
func normalizeMatch(raw rawMatch, signs signKeywords, looseAccount bool) (models.Transaction, error) {
	ts, err := parseDateToken(raw.date)
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := parseAmountToken(raw.amount)
	if err != nil {
		return models.Transaction{}, err
	}
	merchant := cleanDescription(raw.desc)
	if merchant == "" {
		return models.Transaction{}, fmt.Errorf("empty description after cleanup on line %q", raw.line)
	}
	return models.Transaction{
		MerchantName:  merchant,
		Amount:        signs.apply(raw.line, amount),
		Timestamp:     ts,
		Mode:          classifyMode(raw.line),
		UPIID:         extractUPIHandle(raw.line),
		AccountNumber: extractAccountNumber(raw.line, looseAccount),
	}, nil
}
