package extract

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/finwise/statement-extractor/internal/models"
)

// ErrUnsupportedFormat is returned when a statement does not carry the format
// marker.
var ErrUnsupportedFormat = errors.New("unsupported bank statement format")

// KotakParser handles Kotak Mahindra Bank statement exports.
//
// These statements have a labeled header block followed by fixed-column rows:
//
//	Date  Description  Reference  Amount(Dr/Cr)  Balance(Dr/Cr)
//
// Example row: "01-04-2024 UPI/JOHN DOE/OKHDFC UPI-409912 1,500.00(Dr) 23,500.00(Cr)"
type KotakParser struct {
	Log *logrus.Logger
}

var kotakMarkers = []string{"kotak mahindra bank", "kotak"}

// IsKotakStatement reports whether the text carries the Kotak header marker.
// Absence is a hard format gate, not a degradation.
func IsKotakStatement(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range kotakMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

var (
	kotakAccountPattern = regexp.MustCompile(`(?i)Account\s*No\.?\s*:\s*([0-9Xx*]+)`)
	kotakNamePattern    = regexp.MustCompile(`(?im)^\s*Customer\s*Name\s*:\s*([^\n]+)`)
	kotakPeriodPattern  = regexp.MustCompile(`(?i)Period\s*:\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s*(?:to|-)\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`)
	kotakOpeningPattern = regexp.MustCompile(`(?i)Opening\s*Balance\s*:\s*(?:Rs\.?|INR|₹)?\s*(-?[\d,]+(?:\.\d{1,2})?)`)
	kotakClosingPattern = regexp.MustCompile(`(?i)Closing\s*Balance\s*:\s*(?:Rs\.?|INR|₹)?\s*(-?[\d,]+(?:\.\d{1,2})?)`)

	kotakWithdrawalTotalPattern = regexp.MustCompile(`(?i)(?:Total\s*)?Withdrawals?\s*(?:Amount)?\s*:\s*(?:Rs\.?|INR|₹)?\s*([\d,]+(?:\.\d{1,2})?)`)
	kotakDepositTotalPattern    = regexp.MustCompile(`(?i)(?:Total\s*)?Deposits?\s*(?:Amount)?\s*:\s*(?:Rs\.?|INR|₹)?\s*([\d,]+(?:\.\d{1,2})?)`)
	kotakWithdrawalCountPattern = regexp.MustCompile(`(?i)Withdrawal\s*Count\s*:\s*(\d+)`)
	kotakDepositCountPattern    = regexp.MustCompile(`(?i)Deposit\s*Count\s*:\s*(\d+)`)

	// date, description, reference, amount(type), balance(type)
	kotakRowPattern = regexp.MustCompile(`^(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\s+(.+?)\s+(\S+)\s+` +
		`([\d,]+(?:\.\d{1,2})?)\s*(?:\((Dr|Cr)\))?\s+([\d,]+(?:\.\d{1,2})?)\s*(?:\((Dr|Cr)\))?\s*$`)
)

// Parse converts a Kotak statement text into header metadata plus its
// transactions. Rows whose date or amount will not parse are skipped; a single
// bad row never aborts the statement.
func (p *KotakParser) Parse(text string) (*models.BankStatement, error) {
	if !IsKotakStatement(text) {
		return nil, ErrUnsupportedFormat
	}

	st := &models.BankStatement{}
	p.parseHeader(text, st)

	log := p.logger()
	for _, line := range strings.Split(text, "\n") {
		// Fixed layout: internal spacing is meaningful, only edges are trimmed.
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := kotakRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		txn, err := p.normalizeRow(m, line)
		if err != nil {
			log.WithError(err).Debug("skipping statement row")
			continue
		}
		st.Transactions = append(st.Transactions, txn)
	}

	sortByTimestamp(st.Transactions)
	return st, nil
}

func (p *KotakParser) parseHeader(text string, st *models.BankStatement) {
	if m := kotakAccountPattern.FindStringSubmatch(text); m != nil {
		st.AccountNumber = m[1]
	}
	if m := kotakNamePattern.FindStringSubmatch(text); m != nil {
		st.CustomerName = cleanDescription(m[1])
	}
	if m := kotakPeriodPattern.FindStringSubmatch(text); m != nil {
		st.Period = m[1] + " to " + m[2]
	}
	if m := kotakOpeningPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseAmountToken(m[1]); err == nil {
			st.OpeningBalance = v
		}
	}
	if m := kotakClosingPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseAmountToken(m[1]); err == nil {
			st.ClosingBalance = v
		}
	}
	if m := kotakWithdrawalTotalPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseAmountToken(m[1]); err == nil {
			st.TotalWithdrawals = v
		}
	}
	if m := kotakDepositTotalPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseAmountToken(m[1]); err == nil {
			st.TotalDeposits = v
		}
	}
	if m := kotakWithdrawalCountPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			st.WithdrawalCount = n
		}
	}
	if m := kotakDepositCountPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			st.DepositCount = n
		}
	}
}

// normalizeRow maps row capture groups to a Transaction. The amount's own
// Dr/Cr marker is authoritative for direction; rows without one fall back to
// the statement keyword sets (which add "deducted"/"added").
func (p *KotakParser) normalizeRow(m []string, line string) (models.Transaction, error) {
	ts, err := parseDateToken(m[1])
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := parseAmountToken(m[4])
	if err != nil {
		return models.Transaction{}, err
	}
	switch strings.ToLower(m[5]) {
	case "dr":
		amount = -math.Abs(amount)
	case "cr":
		amount = math.Abs(amount)
	default:
		amount = statementSigns.apply(line, amount)
	}

	merchant := cleanDescription(m[2])
	if merchant == "" {
		return models.Transaction{}, errors.New("empty description after cleanup")
	}

	return models.Transaction{
		MerchantName:  merchant,
		Amount:        amount,
		Timestamp:     ts,
		Mode:          classifyMode(line),
		UPIID:         extractUPIHandle(line),
		AccountNumber: extractAccountNumber(line, false),
	}, nil
}

func (p *KotakParser) logger() *logrus.Logger {
	if p.Log != nil {
		return p.Log
	}
	return logrus.StandardLogger()
}
