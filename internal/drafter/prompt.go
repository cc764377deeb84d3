package drafter

import (
	"fmt"
	"strings"

	"github.com/rcliao/wealth-populate/internal/model"
)

// BuildPrompt renders the drafting instructions for gc.
func BuildPrompt(gc model.GenerationContext) string {
	country := gc.ClientCountry
	if country == "" {
		country = "N/A"
	}
	var b strings.Builder
	b.WriteString("Generate a banking document summary with:\n")
	fmt.Fprintf(&b, "- Client: %s from %s, resident since %d\n", gc.ClientName, country, gc.ResidencyYear)
	fmt.Fprintf(&b, "- Document: %s for %s\n", gc.DocType, gc.Topic)
	fmt.Fprintf(&b, "- Period: %s\n", gc.Period())
	fmt.Fprintf(&b, "- Regulation: %s\n", gc.Regulation)
	fmt.Fprintf(&b, "- Financial: %s %.2f, income %.2f %s\n", gc.KPILabel, gc.KPIValue, gc.IncomeAmount, gc.IncomeCurrency)
	fmt.Fprintf(&b, "- Actions: %s\n\n", strings.Join(gc.Actions, "; "))
	b.WriteString("Create JSON with two fields:\n")
	b.WriteString("1. title: Short document title (max 80 chars)\n")
	b.WriteString("2. content: Three paragraphs separated by \\n\\n:\n")
	b.WriteString("   - Paragraph 1: Document description, identity fields, residency info\n")
	b.WriteString("   - Paragraph 2: Compliance checks and regulatory requirements\n")
	b.WriteString("   - Paragraph 3: Next steps and follow-up actions")
	return b.String()
}
