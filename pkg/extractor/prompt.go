package extractor

import (
	"strings"

	"github.com/spendsync/spendsync/pkg/database"
)

// buildPrompt instructs the model to identify exactly one transaction in the
// alert text and emit the fixed JSON shape. The response schema already
// constrains generation; the prompt repeats the rules for models that weigh
// instructions over schema.
func buildPrompt(text string) string {
	var b strings.Builder

	b.WriteString("You are a bank-alert parser. The text below is one bank notification email describing a single financial transaction.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Identify the single transaction described by the alert.\n")
	b.WriteString("- Output STRICT JSON only: one object, no comments, no Markdown, no extra text.\n\n")
	b.WriteString("The object must have exactly these fields:\n")
	b.WriteString("- \"amount\": number, the non-negative transaction amount\n")
	b.WriteString("- \"merchant\": string, the counterparty\n")
	b.WriteString("- \"date\": string, ISO format \"YYYY-MM-DD\", the date stated by the alert\n")
	b.WriteString("- \"category\": string, one of the categories below\n")
	b.WriteString("- \"type\": string, \"DEBIT\" for money out, \"CREDIT\" for money in\n")
	b.WriteString("- \"description\": string, a short summary\n\n")

	b.WriteString("Use ONLY the following categories:\n")
	for _, c := range database.Categories() {
		b.WriteString("- " + string(c) + "\n")
	}
	b.WriteString("\nRules:\n")
	b.WriteString("1. Category must be EXACTLY one of the names above (case-sensitive).\n")
	b.WriteString("2. CREDIT transactions are categorized \"Income\".\n")
	b.WriteString("3. Never output a negative amount; direction is carried by \"type\".\n")
	b.WriteString("4. If unsure about the category, use \"Other\".\n\n")

	b.WriteString("Alert text:\n")
	b.WriteString(text)

	return b.String()
}
