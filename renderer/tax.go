package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/arlet/taxfolio"
)

// TaxMarkdown renders the tax liability of a full-year analysis: one section
// per income class with its band breakdown, the chargeable events, and the
// overall position. The tax stage runs first if it has not already.
func TaxMarkdown(a *taxfolio.Analysis) string {
	a.CalculateTax()
	tax := a.Tax()
	if tax == nil {
		return "No tax year attached to this analysis.\n"
	}

	var b strings.Builder
	y := tax.Year
	fmt.Fprintf(&b, "# Tax Liability %d-%d\n\n", y.Year-1, y.Year)
	if tax.Age > 0 {
		fmt.Fprintf(&b, "Age at year end: %d\n\n", tax.Age)
	}
	fmt.Fprintf(&b, "Personal allowance: %s\n\n", tax.Allowance)

	for _, bucket := range tax.Buckets {
		fmt.Fprintf(&b, "## Tax on %s\n\n", bucket.Class)
		fmt.Fprintln(&b, "| Band | Amount | Rate | Tax |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|")
		for _, band := range bucket.Bands {
			rate := ""
			if band.Rate.IsNonZero() {
				rate = band.Rate.String()
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				band.Name, band.Amount.SignedString(), rate, band.Taxation.SignedString())
		}
		fmt.Fprintf(&b, "\n%s of %s, tax due **%s**\n\n",
			strings.ToUpper(bucket.Class.String()[:1])+bucket.Class.String()[1:],
			bucket.Amount, bucket.TaxDue.SignedString())
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Chargeable Events\n\n")
		fmt.Fprintln(w, "| Date | Gains | Years | Slice | Tax |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
		printed := false
		for c := range a.Charges().All() {
			fmt.Fprintf(w, "| %s | %s | %d | %s | %s |\n",
				c.Event.Date, c.Gains.SignedString(), c.Years, c.Slice.SignedString(), c.Tax.SignedString())
			printed = true
		}
		fmt.Fprintln(w)
		return printed
	})

	fmt.Fprint(&b, "## Position\n\n")
	fmt.Fprintln(&b, "| Total Income | Total Tax Due | Tax Paid | Balance |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s | **%s** |\n\n",
		tax.TotalIncome.SignedString(), tax.TotalTaxDue.SignedString(),
		tax.TaxPaid.SignedString(), tax.TaxProfit.SignedString())
	switch {
	case tax.TaxProfit.IsPositive():
		fmt.Fprintf(&b, "Overpaid by %s.\n", tax.TaxProfit)
	case tax.TaxProfit.IsNegative():
		fmt.Fprintf(&b, "Owed: %s.\n", tax.TaxProfit.Neg())
	default:
		fmt.Fprint(&b, "Settled in full.\n")
	}
	return b.String()
}
