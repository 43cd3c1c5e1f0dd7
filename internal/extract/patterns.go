package extract

import "regexp"

// linePattern is one entry of the matching cascade. Every pattern exposes
// exactly three capture groups: date token, description token, amount token.
type linePattern struct {
	name string
	re   *regexp.Regexp
}

// linePatterns is tried in order against each candidate line and the first
// pattern that matches wins. The order is a behavioral contract: the specific
// rail-labelled patterns must fire before the permissive catch-alls, and the
// OCR-tolerant pattern is last because it accepts almost anything.
var linePatterns = []linePattern{
	{
		// "15/03/2024 UPI-JOHN DOE UPI Rs.1,500.00 Dr"
		name: "upi",
		re: regexp.MustCompile(`(?i)^(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s+.*?\bUPI\b[-/\s]*` +
			`(.+?)(?:\s+UPI\b)?\s+(?:RS\.?|INR|₹)?\s*([\d,]+(?:\.\d{1,2})?)(?:\s+(?:CR|DR)\.?)?\s*$`),
	},
	{
		// "02/03/2024 POS 1234XXXX BIG BAZAAR 2,350.00" and ATM/card withdrawals
		name: "card",
		re: regexp.MustCompile(`(?i)^(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s+.*?\b(?:POS|ATM|ATW|CARD)\b[-/\s]*` +
			`(.+?)\s+(?:RS\.?|INR|₹)?\s*([\d,]+(?:\.\d{1,2})?)(?:\s+(?:CR|DR)\.?)?\s*$`),
	},
	{
		// "01-04-24 NEFT ABC CORP 25000.00 CR", also IMPS and RTGS lines
		name: "bank-transfer",
		re: regexp.MustCompile(`(?i)^(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s+.*?\b(?:NEFT|IMPS|RTGS)\b[-/\s]*` +
			`(.+?)\s+(?:RS\.?|INR|₹)?\s*([\d,]+(?:\.\d{1,2})?)(?:\s+(?:CR|DR)\.?)?\s*$`),
	},
	{
		// any description as long as the amount carries an explicit Cr/Dr marker
		name: "crdr-suffix",
		re: regexp.MustCompile(`(?i)^(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s+` +
			`(.+?)\s+(?:RS\.?|INR|₹)?\s*([\d,]+(?:\.\d{1,2})?)\s*\(?(?:CR|DR)\)?\.?\s*$`),
	},
	{
		// plain "date description amount" rows; the amount must have decimals so
		// reference numbers are not mistaken for money
		name: "generic",
		re: regexp.MustCompile(`^(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s+` +
			`([A-Za-z][A-Za-z0-9@._/\\&()\- ]*?)\s+(?:Rs\.?|INR|₹)?\s*([\d,]+\.\d{1,2})\s*$`),
	},
	{
		// OCR output: tolerate ; and : standing in for the decimal point, plus a
		// few chars of leading recognition junk ("| ", "* ")
		name: "ocr-loose",
		re: regexp.MustCompile(`(?i)^\W{0,3}(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s+` +
			`(.{3,}?)\s+(?:RS\.?|INR|₹)?\s*([\d,]+[.;:]\d{2})(?:\s+(?:CR|DR)\.?)?\s*$`),
	},
}

// looseScanPattern is the unanchored form of the OCR-tolerant pattern, used to
// sweep a whole whitespace-collapsed document when line-based matching finds
// nothing at all.
var looseScanPattern = regexp.MustCompile(`(?i)(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s+` +
	`(.{3,}?)\s+(?:RS\.?|INR|₹)?\s*([\d,]+[.;:]\d{2})\b(?:\s+(?:CR|DR)\b\.?)?`)

// rawMatch is the untyped output of the pattern engine: the three capture
// groups plus the full source line for keyword scanning.
type rawMatch struct {
	date    string
	desc    string
	amount  string
	line    string
	pattern string
}

// matchLine runs the cascade against a single line and returns the first hit.
func matchLine(line string) (rawMatch, bool) {
	for _, p := range linePatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return rawMatch{
			date:    m[1],
			desc:    m[2],
			amount:  m[3],
			line:    line,
			pattern: p.name,
		}, true
	}
	return rawMatch{}, false
}
