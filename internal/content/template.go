package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rcliao/wealth-populate/internal/model"
)

// MaxTitleLength is the longest title, in characters, the remote API accepts.
const MaxTitleLength = 80

// Template renders the deterministic fallback document for gc, stamped with at.
func Template(gc model.GenerationContext, at time.Time) model.DocumentRecord {
	paragraphs := []string{
		fmt.Sprintf("%s uploaded for %s as part of the %s review. "+
			"Residence registered since %d with supporting evidence (%s).",
			capitalize(strings.ToLower(gc.DocType)), gc.ClientName, gc.Topic,
			gc.ResidencyYear, strings.Join(gc.Supporting, ", ")),
		fmt.Sprintf("Compliance context: controls assessed against %s. "+
			"Declared %s measured at %.2f with monthly income %s %s. "+
			"All personal identifiers validated against passport and national registry data.",
			gc.Regulation, gc.KPILabel, gc.KPIValue, formatAmount(gc.IncomeAmount), gc.IncomeCurrency),
		fmt.Sprintf("Next steps: %s. "+
			"Client will be notified once verification and archival steps are complete.",
			strings.Join(gc.Actions, ", ")),
		fmt.Sprintf("Reference ID %s | Generated %s", gc.ReferenceID, at.Format("2006-01-02 15:04:05")),
	}
	return model.DocumentRecord{
		Title:   clampTitle(gc.DocType + " – " + gc.ClientName),
		Content: strings.Join(paragraphs, "\n\n"),
	}
}

func clampTitle(title string) string {
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:MaxTitleLength]))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

// formatAmount renders a non-negative v with two decimals and thousands
// separators, e.g. 12,345.67.
func formatAmount(v float64) string {
	intPart, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', 2, 64), ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + "." + frac
}
