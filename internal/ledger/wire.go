package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/loansync-dev/loansync/internal/model"
)

// wireTransaction mirrors the API's transaction JSON.
type wireTransaction struct {
	ID             int64           `json:"id"`
	Date           string          `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Payee          string          `json:"payee"`
	IsTransfer     bool            `json:"is_transfer"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Note           string          `json:"note"`
	Category       *wireCategory   `json:"category"`
	Account        *wireAccount    `json:"transaction_account"`
}

type wireCategory struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
}

type wireAccount struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (w wireTransaction) toModel() (model.Transaction, error) {
	date, err := model.ParseDate(w.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", w.Date, err)
	}
	txn := model.Transaction{
		ID:             w.ID,
		Date:           date,
		Amount:         w.Amount,
		Payee:          w.Payee,
		IsTransfer:     w.IsTransfer,
		ClosingBalance: w.ClosingBalance,
		Note:           w.Note,
	}
	if w.Category != nil {
		txn.CategoryID = w.Category.ID.String()
		txn.CategoryTitle = w.Category.Title
	}
	if w.Account != nil {
		txn.AccountName = w.Account.Name
	}
	return txn, nil
}

// createRequest is the POST body for transaction creation. CategoryID is a
// pointer so an uncategorized posting omits the field rather than sending "".
type createRequest struct {
	Payee      string  `json:"payee"`
	Amount     string  `json:"amount"`
	Date       string  `json:"date"`
	IsTransfer bool    `json:"is_transfer"`
	CategoryID *string `json:"category_id,omitempty"`
	Note       string  `json:"note,omitempty"`
}
