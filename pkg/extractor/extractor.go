package extractor

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendsync/spendsync/pkg/common"
	"github.com/spendsync/spendsync/pkg/database"
)

// Extractor turns free-text bank-alert content into one structured
// transaction. One call per alert; no internal retry, the caller decides
// whether a failed message is retried on a later sync.
type Extractor struct {
	model Model
}

func NewExtractor(model Model) *Extractor {
	return &Extractor{
		model: model,
	}
}

// modelOutput is the fixed JSON shape the model is instructed to emit.
type modelOutput struct {
	Amount      json.Number `json:"amount"`
	Merchant    string      `json:"merchant"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
}

func (e *Extractor) Extract(ctx context.Context, text string) (database.Transaction, error) {
	if strings.TrimSpace(text) == "" {
		return database.Transaction{}, errors.Wrap(common.ErrExtraction, "empty input text")
	}

	raw, err := e.model.GenerateJSON(ctx, buildPrompt(text))
	if err != nil {
		return database.Transaction{}, errors.Mark(err, common.ErrExtraction)
	}

	out, err := parseModelOutput(raw)
	if err != nil {
		return database.Transaction{}, errors.Mark(err, common.ErrExtraction)
	}

	tx, err := toTransaction(out)
	if err != nil {
		return database.Transaction{}, errors.Mark(err, common.ErrExtraction)
	}

	return tx, nil
}

func parseModelOutput(raw string) (modelOutput, error) {
	clean := cleanModelJSON(raw)

	decoder := json.NewDecoder(strings.NewReader(clean))
	decoder.UseNumber()

	var out modelOutput
	if err := decoder.Decode(&out); err != nil {
		return modelOutput{}, errors.Wrapf(err, "malformed model output: %s", raw)
	}

	return out, nil
}

func toTransaction(out modelOutput) (database.Transaction, error) {
	amount, err := decimal.NewFromString(out.Amount.String())
	if err != nil {
		return database.Transaction{}, errors.Wrapf(err, "amount in %s", spew.Sdump(out))
	}

	category, err := database.ParseCategory(out.Category)
	if err != nil {
		return database.Transaction{}, err
	}

	txType, err := database.ParseTransactionType(out.Type)
	if err != nil {
		return database.Transaction{}, err
	}

	tx := database.Transaction{
		ID:          uuid.NewString(),
		Date:        out.Date,
		Amount:      amount,
		Merchant:    out.Merchant,
		Description: out.Description,
		Category:    category,
		Type:        txType,
	}

	if err = tx.Validate(); err != nil {
		return database.Transaction{}, err
	}

	return tx, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk in case the
// model ignored the strict-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}

		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}

		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
		}
	}

	return s
}
