package models

// TransactionMode classifies the payment rail a transaction moved over.
type TransactionMode string

const (
	ModeUPI          TransactionMode = "UPI"
	ModeNEFT         TransactionMode = "NEFT"
	ModeIMPS         TransactionMode = "IMPS"
	ModeRTGS         TransactionMode = "RTGS"
	ModeATM          TransactionMode = "ATM"
	ModePOS          TransactionMode = "POS"
	ModeCash         TransactionMode = "CASH"
	ModeCheque       TransactionMode = "CHEQUE"
	ModeBankTransfer TransactionMode = "BANK_TRANSFER"
)

// Modes lists every valid TransactionMode.
var Modes = []TransactionMode{
	ModeUPI, ModeNEFT, ModeIMPS, ModeRTGS, ModeATM,
	ModePOS, ModeCash, ModeCheque, ModeBankTransfer,
}

// Transaction is a single reconstructed statement transaction.
// Amount is signed: positive means money in (credit), negative money out (debit).
// Timestamp is epoch milliseconds at local midnight; statements carry no time of day.
type Transaction struct {
	MerchantName  string          `json:"merchantName"`
	Amount        float64         `json:"amount"`
	Timestamp     int64           `json:"timestamp"`
	Mode          TransactionMode `json:"transactionMode"`
	UPIID         string          `json:"upiId,omitempty"`
	AccountNumber string          `json:"accountNumber,omitempty"`
}

// BankStatement holds header metadata from a fixed-layout statement plus its
// parsed transactions. Declared totals are carried as-is; they are not checked
// against the transaction list unless the caller runs the reconcile pass.
type BankStatement struct {
	AccountNumber    string        `json:"accountNumber,omitempty"`
	CustomerName     string        `json:"customerName,omitempty"`
	Period           string        `json:"period,omitempty"`
	OpeningBalance   float64       `json:"openingBalance"`
	ClosingBalance   float64       `json:"closingBalance"`
	WithdrawalCount  int           `json:"withdrawalCount"`
	DepositCount     int           `json:"depositCount"`
	TotalWithdrawals float64       `json:"totalWithdrawals"`
	TotalDeposits    float64       `json:"totalDeposits"`
	Transactions     []Transaction `json:"transactions"`
}

// ExtractionResult is the public outcome of an extraction call. A call that
// parses nothing is still Success=true with an explanatory Message; Error is
// only set when the call as a whole failed (unsupported format, unreadable
// document, internal error).
type ExtractionResult struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message,omitempty"`
	Error        string         `json:"error,omitempty"`
	Transactions []Transaction  `json:"transactions"`
	Statement    *BankStatement `json:"statement,omitempty"`
}
