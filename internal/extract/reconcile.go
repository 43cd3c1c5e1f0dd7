package extract

import (
	"github.com/shopspring/decimal"

	"github.com/finwise/statement-extractor/internal/models"
)

// ReconcileReport compares a statement's declared summary figures against the
// rows that were actually parsed. It is informational only and never gates an
// extraction result.
type ReconcileReport struct {
	DeclaredWithdrawals decimal.Decimal `json:"declaredWithdrawals"`
	ParsedWithdrawals   decimal.Decimal `json:"parsedWithdrawals"`
	WithdrawalDelta     decimal.Decimal `json:"withdrawalDelta"`

	DeclaredDeposits decimal.Decimal `json:"declaredDeposits"`
	ParsedDeposits   decimal.Decimal `json:"parsedDeposits"`
	DepositDelta     decimal.Decimal `json:"depositDelta"`

	DeclaredWithdrawalCount int `json:"declaredWithdrawalCount"`
	ParsedWithdrawalCount   int `json:"parsedWithdrawalCount"`
	DeclaredDepositCount    int `json:"declaredDepositCount"`
	ParsedDepositCount      int `json:"parsedDepositCount"`

	Balanced bool `json:"balanced"`
}

// Reconcile sums the parsed rows with exact decimal arithmetic and diffs them
// against the header's declared totals and counts.
func Reconcile(st *models.BankStatement) ReconcileReport {
	r := ReconcileReport{
		DeclaredWithdrawals:     decimal.NewFromFloat(st.TotalWithdrawals),
		DeclaredDeposits:        decimal.NewFromFloat(st.TotalDeposits),
		DeclaredWithdrawalCount: st.WithdrawalCount,
		DeclaredDepositCount:    st.DepositCount,
	}

	withdrawals := decimal.Zero
	deposits := decimal.Zero
	for _, txn := range st.Transactions {
		amt := decimal.NewFromFloat(txn.Amount)
		if amt.IsNegative() {
			withdrawals = withdrawals.Add(amt.Abs())
			r.ParsedWithdrawalCount++
		} else {
			deposits = deposits.Add(amt)
			r.ParsedDepositCount++
		}
	}

	r.ParsedWithdrawals = withdrawals
	r.ParsedDeposits = deposits
	r.WithdrawalDelta = r.DeclaredWithdrawals.Sub(withdrawals)
	r.DepositDelta = r.DeclaredDeposits.Sub(deposits)
	r.Balanced = r.WithdrawalDelta.IsZero() && r.DepositDelta.IsZero() &&
		r.DeclaredWithdrawalCount == r.ParsedWithdrawalCount &&
		r.DeclaredDepositCount == r.ParsedDepositCount
	return r
}
