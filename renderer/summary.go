// Package renderer formats completed analyses as markdown reports.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/arlet/taxfolio"
)

// SummaryMarkdown renders the wealth, account and category summary of an
// analysis. The totals stage runs first if it has not already.
func SummaryMarkdown(a *taxfolio.Analysis) string {
	a.ProduceTotals()

	var b strings.Builder
	if y := a.Year(); y != nil {
		fmt.Fprintf(&b, "# Summary for tax year %d-%d\n\n", y.Year-1, y.Year)
	} else {
		fmt.Fprintf(&b, "# Summary at %s\n\n", a.Date())
	}

	w := a.Wealth()
	fmt.Fprint(&b, "## Wealth\n\n")
	fmt.Fprintln(&b, "| Cash | Debt | Assets | Net |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s | **%s** |\n\n",
		w.Cash.SignedString(), w.Debt.SignedString(), w.Assets.SignedString(), w.Net.SignedString())

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Cash Accounts\n\n")
		fmt.Fprintln(w, "| Account | Balance | Rate | Maturity |")
		fmt.Fprintln(w, "|:---|---:|---:|:---|")
		printed := false
		for bucket := range a.Accounts().All() {
			mb, ok := bucket.(*taxfolio.MoneyBucket)
			if !ok {
				continue
			}
			rate, maturity := "", ""
			if mb.Rate.IsNonZero() {
				rate = mb.Rate.String()
			}
			if !mb.Maturity.IsZero() {
				maturity = mb.Maturity.String()
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", mb.Account().Name, mb.Value.SignedString(), rate, maturity)
			printed = true
		}
		fmt.Fprintln(w)
		return printed
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Debts\n\n")
		fmt.Fprintln(w, "| Account | Balance | Spend |")
		fmt.Fprintln(w, "|:---|---:|---:|")
		printed := false
		for bucket := range a.Accounts().All() {
			db, ok := bucket.(*taxfolio.DebtBucket)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "| %s | %s | %s |\n", db.Account().Name, db.Value.SignedString(), db.Spend.SignedString())
			printed = true
		}
		fmt.Fprintln(w)
		return printed
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Assets\n\n")
		fmt.Fprintln(w, "| Asset | Units | Price | Value | Cost | Gains | Dividends | Profit |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|---:|---:|---:|")
		printed := false
		for bucket := range a.Accounts().All() {
			ab, ok := bucket.(*taxfolio.AssetBucket)
			if !ok {
				continue
			}
			price := ""
			if !ab.Price.IsZero() {
				price = ab.Price.String()
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
				ab.Account().Name, ab.Units, price, ab.Value.SignedString(),
				ab.Cost.SignedString(), ab.Gains.SignedString(),
				ab.Dividend.SignedString(), ab.Profit.SignedString())
			printed = true
		}
		fmt.Fprintln(w)
		return printed
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Payees\n\n")
		fmt.Fprintln(w, "| Payee | Income | Expense | Tax Credit |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
		printed := false
		for bucket := range a.Accounts().All() {
			pb, ok := bucket.(*taxfolio.PayeeBucket)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				pb.Account().Name, pb.Income.SignedString(), pb.Expense.SignedString(), pb.TaxCredit.SignedString())
			printed = true
		}
		fmt.Fprintln(w)
		return printed
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Categories\n\n")
		fmt.Fprintln(w, "| Category | Amount | Tax Credit |")
		fmt.Fprintln(w, "|:---|---:|---:|")
		printed := false
		for cb := range a.Categories().All() {
			fmt.Fprintf(w, "| %s | %s | %s |\n", cb.Category(), cb.Amount.SignedString(), cb.TaxCredit.SignedString())
			printed = true
		}
		fmt.Fprintln(w)
		return printed
	})

	t := a.TaxCategories()
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Tax Summary\n\n")
		fmt.Fprintln(w, "| Tier | Amount | Tax Credit |")
		fmt.Fprintln(w, "|:---|---:|---:|")
		printed := false
		for tb := range t.All() {
			fmt.Fprintf(w, "| %s | %s | %s |\n", tb.Category(), tb.Amount.SignedString(), tb.TaxCredit.SignedString())
			printed = true
		}
		fmt.Fprintln(w)
		return printed
	})
	fmt.Fprintf(&b, "Core income: %s\n\n", t.CoreIncome.SignedString())
	fmt.Fprintf(&b, "Core profit: %s\n\n", t.CoreProfit.SignedString())
	fmt.Fprintf(&b, "Profit/loss: **%s**\n", t.ProfitLoss.SignedString())

	return b.String()
}
