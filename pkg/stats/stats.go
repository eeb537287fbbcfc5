package stats

import (
	"github.com/shopspring/decimal"

	"github.com/spendsync/spendsync/pkg/database"
)

// Summary is the aggregate view over the ledger: overall in/out totals plus
// per-category and per-month breakdowns of spending.
type Summary struct {
	Count       int             `json:"count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Net         decimal.Decimal `json:"net"`

	// SpendByCategory and SpendByMonth cover DEBIT transactions only;
	// months are keyed YYYY-MM.
	SpendByCategory map[database.Category]decimal.Decimal `json:"spend_by_category"`
	SpendByMonth    map[string]decimal.Decimal            `json:"spend_by_month"`
}

func Summarize(transactions []database.Transaction) Summary {
	summary := Summary{
		Count:           len(transactions),
		TotalDebit:      decimal.Zero,
		TotalCredit:     decimal.Zero,
		Net:             decimal.Zero,
		SpendByCategory: map[database.Category]decimal.Decimal{},
		SpendByMonth:    map[string]decimal.Decimal{},
	}

	for _, tx := range transactions {
		if tx.Type == database.TransactionTypeCredit {
			summary.TotalCredit = summary.TotalCredit.Add(tx.Amount)
			continue
		}

		summary.TotalDebit = summary.TotalDebit.Add(tx.Amount)

		current, ok := summary.SpendByCategory[tx.Category]
		if !ok {
			current = decimal.Zero
		}
		summary.SpendByCategory[tx.Category] = current.Add(tx.Amount)

		if len(tx.Date) >= 7 {
			month := tx.Date[:7]

			currentMonth, ok := summary.SpendByMonth[month]
			if !ok {
				currentMonth = decimal.Zero
			}
			summary.SpendByMonth[month] = currentMonth.Add(tx.Amount)
		}
	}

	summary.Net = summary.TotalCredit.Sub(summary.TotalDebit)

	return summary
}
