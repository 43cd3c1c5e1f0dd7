package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/finwise/statement-extractor/internal/models"
)

// csvRow is the flat CSV projection of a transaction.
type csvRow struct {
	Date          string `csv:"Date"`
	Merchant      string `csv:"Merchant"`
	Mode          string `csv:"Mode"`
	Amount        string `csv:"Amount"`
	UPIID         string `csv:"UPI ID"`
	AccountNumber string `csv:"Account Number"`
}

// CSVWriter writes extraction results as CSV. When IncludeStatementHeader is
// set and a statement header was parsed, its metadata is emitted as comment
// rows ahead of the transaction table.
type CSVWriter struct {
	IncludeStatementHeader bool
}

// WriteToFile writes the result to a CSV file at path.
func (w *CSVWriter) WriteToFile(path string, res *models.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()
	return w.Write(f, res)
}

// Write writes the result in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, res *models.ExtractionResult) error {
	if w.IncludeStatementHeader && res.Statement != nil {
		if err := writeStatementHeader(out, res.Statement); err != nil {
			return err
		}
	}

	rows := make([]csvRow, 0, len(res.Transactions))
	for _, txn := range res.Transactions {
		rows = append(rows, csvRow{
			Date:          time.UnixMilli(txn.Timestamp).Format("02/01/2006"),
			Merchant:      txn.MerchantName,
			Mode:          string(txn.Mode),
			Amount:        strconv.FormatFloat(txn.Amount, 'f', 2, 64),
			UPIID:         txn.UPIID,
			AccountNumber: txn.AccountNumber,
		})
	}
	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func writeStatementHeader(out io.Writer, st *models.BankStatement) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if st.AccountNumber != "" {
		cw.Write([]string{"# Account Number", st.AccountNumber})
	}
	if st.CustomerName != "" {
		cw.Write([]string{"# Customer Name", st.CustomerName})
	}
	if st.Period != "" {
		cw.Write([]string{"# Period", st.Period})
	}
	cw.Write([]string{"# Opening Balance", strconv.FormatFloat(st.OpeningBalance, 'f', 2, 64)})
	cw.Write([]string{"# Closing Balance", strconv.FormatFloat(st.ClosingBalance, 'f', 2, 64)})
	if err := cw.Write([]string{"# Transactions", strconv.Itoa(len(st.Transactions))}); err != nil {
		return fmt.Errorf("failed to write CSV header rows: %w", err)
	}
	return nil
}
