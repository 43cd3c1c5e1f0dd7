package writer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwise/statement-extractor/internal/models"
)

func sampleResult() *models.ExtractionResult {
	return &models.ExtractionResult{
		Success: true,
		Transactions: []models.Transaction{
			{
				MerchantName: "JOHN DOE",
				Amount:       -1500,
				Timestamp:    time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local).UnixMilli(),
				Mode:         models.ModeUPI,
				UPIID:        "john@okhdfc",
			},
			{
				MerchantName: "ABC CORP",
				Amount:       25000,
				Timestamp:    time.Date(2024, time.April, 1, 0, 0, 0, 0, time.Local).UnixMilli(),
				Mode:         models.ModeNEFT,
			},
		},
	}
}

func TestWriteTransactions(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, sampleResult()))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Merchant,Mode,Amount,UPI ID,Account Number", lines[0])
	assert.Contains(t, lines[1], "15/03/2024")
	assert.Contains(t, lines[1], "JOHN DOE")
	assert.Contains(t, lines[1], "-1500.00")
	assert.Contains(t, lines[1], "john@okhdfc")
	assert.Contains(t, lines[2], "01/04/2024")
	assert.Contains(t, lines[2], "25000.00")
}

func TestWriteStatementHeaderRows(t *testing.T) {
	res := sampleResult()
	res.Statement = &models.BankStatement{
		AccountNumber:  "1234567890",
		CustomerName:   "JOHN DOE",
		Period:         "01-04-2024 to 30-04-2024",
		OpeningBalance: 25000,
		ClosingBalance: 23700,
		Transactions:   res.Transactions,
	}

	var buf bytes.Buffer
	w := &CSVWriter{IncludeStatementHeader: true}
	require.NoError(t, w.Write(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "# Account Number,1234567890")
	assert.Contains(t, out, "# Period,01-04-2024 to 30-04-2024")
	assert.Contains(t, out, "# Opening Balance,25000.00")
	assert.True(t, strings.Contains(out, "Date,Merchant,Mode,Amount,UPI ID,Account Number"))
}

func TestWriteHeaderSkippedWithoutStatement(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeStatementHeader: true}
	require.NoError(t, w.Write(&buf, sampleResult()))
	assert.NotContains(t, buf.String(), "#")
}

func TestWriteEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, &models.ExtractionResult{Success: true}))
	// header row only
	assert.Equal(t, "Date,Merchant,Mode,Amount,UPI ID,Account Number", strings.TrimSpace(buf.String()))
}
