package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwise/statement-extractor/internal/models"
)

func TestExtractUPILine(t *testing.T) {
	e := &Extractor{}
	txns := e.Extract("15/03/2024 UPI-JOHN DOE UPI Rs.1,500.00 Dr")

	require.Len(t, txns, 1)
	txn := txns[0]
	assert.Equal(t, "JOHN DOE", txn.MerchantName)
	assert.Equal(t, float64(-1500), txn.Amount)
	assert.Equal(t, models.ModeUPI, txn.Mode)
	assert.Equal(t, localMillis(2024, time.March, 15), txn.Timestamp)
}

func TestExtractNEFTLine(t *testing.T) {
	e := &Extractor{}
	txns := e.Extract("01-04-24 NEFT ABC CORP 25000.00 CR")

	require.Len(t, txns, 1)
	txn := txns[0]
	assert.Equal(t, "ABC CORP", txn.MerchantName)
	assert.Equal(t, float64(25000), txn.Amount)
	assert.Equal(t, models.ModeNEFT, txn.Mode)
	assert.Equal(t, localMillis(2024, time.April, 1), txn.Timestamp)
}

func TestExtractCapturesUPIHandle(t *testing.T) {
	e := &Extractor{}
	txns := e.Extract("15/03/2024 UPI-john.doe@okhdfc grocery run Rs.450.00 Dr")

	require.Len(t, txns, 1)
	assert.Equal(t, "john.doe@okhdfc", txns[0].UPIID)
	assert.Negative(t, txns[0].Amount)
}

func TestExtractMergesWrappedDescription(t *testing.T) {
	e := &Extractor{}
	text := "15/03/2024 UPI-SUPERMART ONLINE\nRs.2,350.00 Dr"
	txns := e.Extract(text)

	require.Len(t, txns, 1)
	assert.Equal(t, "SUPERMART ONLINE", txns[0].MerchantName)
	assert.Equal(t, float64(-2350), txns[0].Amount)
}

func TestExtractDoesNotMergeIntoNextTransaction(t *testing.T) {
	e := &Extractor{}
	// the second line starts with a date, so the unmatched first line must not
	// swallow it
	text := "some stray narration without an amount\n16/03/2024 POS BIG BAZAAR 2,350.00 Dr"
	txns := e.Extract(text)

	require.Len(t, txns, 1)
	assert.Equal(t, "BIG BAZAAR", txns[0].MerchantName)
	assert.Equal(t, models.ModePOS, txns[0].Mode)
}

func TestExtractSkipsUnparsableLines(t *testing.T) {
	e := &Extractor{}
	text := "this line has no transaction\n" +
		"15/03/2024 UPI-JOHN DOE UPI Rs.1,500.00 Dr\n" +
		"another filler line\n" +
		"\n" +
		"   \n" +
		"99/99/9999 BROKEN DATE 100.00 Dr"
	txns := e.Extract(text)

	require.Len(t, txns, 1)
	assert.Equal(t, "JOHN DOE", txns[0].MerchantName)
}

func TestExtractSortsByTimestamp(t *testing.T) {
	e := &Extractor{}
	text := "20/03/2024 NEFT LATE CORP 100.00 CR\n" +
		"05/03/2024 NEFT EARLY CORP 200.00 CR\n" +
		"12/03/2024 NEFT MID CORP 300.00 CR"
	txns := e.Extract(text)

	require.Len(t, txns, 3)
	assert.Equal(t, "EARLY CORP", txns[0].MerchantName)
	assert.Equal(t, "MID CORP", txns[1].MerchantName)
	assert.Equal(t, "LATE CORP", txns[2].MerchantName)
	for i := 1; i < len(txns); i++ {
		assert.LessOrEqual(t, txns[i-1].Timestamp, txns[i].Timestamp)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	e := &Extractor{}
	text := "15/03/2024 UPI-JOHN DOE UPI Rs.1,500.00 Dr\n" +
		"01/03/2024 ATM CASH WITHDRAWAL 10,000.00 Dr\n" +
		"20/03/2024 IMPS ACME SALARY 55,000.00 CR"

	first := e.Extract(text)
	second := e.Extract(text)
	assert.Equal(t, first, second)
}

func TestExtractEmptyInput(t *testing.T) {
	e := &Extractor{}
	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("\n\n   \n"))
}

func TestExtractLooseScanFallback(t *testing.T) {
	e := &Extractor{}
	// trailing OCR junk defeats every anchored line pattern; the unanchored
	// sweep still finds the transaction and repairs the semicolon decimal
	txns := e.Extract("15/03/2024 SHOP A 100;00 Dr EXTRA JUNK TRAILING")

	require.Len(t, txns, 1)
	assert.Equal(t, "SHOP A", txns[0].MerchantName)
	assert.Equal(t, float64(-100), txns[0].Amount)
}

func TestExtractMerchantNameBounded(t *testing.T) {
	e := &Extractor{}
	long := "15/03/2024 NEFT "
	for i := 0; i < 30; i++ {
		long += "VERYLONGNAME "
	}
	long += "123.45 CR"
	txns := e.Extract(long)

	require.Len(t, txns, 1)
	assert.LessOrEqual(t, len(txns[0].MerchantName), 100)
}

func TestMatchLineFirstPatternWins(t *testing.T) {
	// a UPI line with a Cr suffix could also satisfy the crdr-suffix pattern;
	// the more specific upi pattern must fire first
	raw, ok := matchLine("15/03/2024 UPI-MERCHANT 500.00 Cr")
	require.True(t, ok)
	assert.Equal(t, "upi", raw.pattern)

	raw, ok = matchLine("15/03/2024 SOMETHING ELSE 500.00 Cr")
	require.True(t, ok)
	assert.Equal(t, "crdr-suffix", raw.pattern)
}

func TestMatchLineRejectsMidLineDates(t *testing.T) {
	// leading narration must not let the OCR-tolerant pattern fire mid-line;
	// only the whole-text sweep matches unanchored
	_, ok := matchLine("REF 99 15/03/2024 SHOP A 100;00")
	assert.False(t, ok)

	// a few chars of leading recognition junk are still tolerated
	raw, ok := matchLine("| 15/03/2024 SHOP A 100;00")
	require.True(t, ok)
	assert.Equal(t, "ocr-loose", raw.pattern)
	assert.Equal(t, "SHOP A", raw.desc)
}
