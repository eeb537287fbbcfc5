package database

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDebit  = TransactionType("DEBIT")
	TransactionTypeCredit = TransactionType("CREDIT")
)

func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(raw) {
	case TransactionTypeDebit:
		return TransactionTypeDebit, nil
	case TransactionTypeCredit:
		return TransactionTypeCredit, nil
	default:
		return "", errors.Newf("unknown transaction type %q", raw)
	}
}

type Category string

const (
	CategoryFoodDining     = Category("Food & Dining")
	CategoryShopping       = Category("Shopping")
	CategoryTransport      = Category("Transport")
	CategoryUtilitiesBills = Category("Utilities & Bills")
	CategoryEntertainment  = Category("Entertainment")
	CategoryHealth         = Category("Health")
	CategoryTravel         = Category("Travel")
	CategoryOther          = Category("Other")
	CategoryIncome         = Category("Income")
)

// Categories returns the closed category set in a stable order. The extractor
// feeds this list into the model schema, so adding a value here changes the
// extraction contract.
func Categories() []Category {
	return []Category{
		CategoryFoodDining,
		CategoryShopping,
		CategoryTransport,
		CategoryUtilitiesBills,
		CategoryEntertainment,
		CategoryHealth,
		CategoryTravel,
		CategoryOther,
		CategoryIncome,
	}
}

func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories() {
		if Category(raw) == c {
			return c, nil
		}
	}

	return "", errors.Newf("unknown category %q", raw)
}

const DateLayout = "2006-01-02"

// Transaction is one financial event extracted from a single alert message.
// Date is kept as the YYYY-MM-DD string stated by the alert, not the
// processing date. Amount is a non-negative magnitude; direction lives in
// Type.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Merchant    string          `json:"merchant"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Type        TransactionType `json:"type"`
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("transaction id is empty")
	}

	if t.Amount.IsNegative() {
		return errors.Newf("amount %s is negative", t.Amount)
	}

	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}

	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}

	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return errors.Wrapf(err, "date %q is not a calendar date", t.Date)
	}

	return nil
}
