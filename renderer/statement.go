package renderer

import (
	"fmt"
	"strings"

	"github.com/arlet/taxfolio"
)

// StatementMarkdown renders the events touching one account over a range with
// the closing balance, from a statement analysis of that account.
func StatementMarkdown(a *taxfolio.Analysis, account *taxfolio.Account, from, to taxfolio.Date) string {
	account = account.Resolve()

	var b strings.Builder
	fmt.Fprintf(&b, "# Statement for %s from %s to %s\n\n", account.Name, from, to)
	fmt.Fprintln(&b, "| Date | Category | Counterparty | Amount |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|")

	for e := range a.Ledger().EventsInRange(from, to) {
		if e.Deleted {
			continue
		}
		debit, credit := e.Debit.Resolve(), e.Credit.Resolve()
		var counterparty string
		var amount taxfolio.Money
		switch account {
		case credit:
			counterparty = debit.Name
			amount = e.Amount
		case debit:
			counterparty = credit.Name
			amount = e.Amount.Neg()
		default:
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", e.Date, e.Category, counterparty, amount.SignedString())
	}
	fmt.Fprintln(&b)

	if bucket, ok := a.Accounts().Get(account.Name); ok {
		switch bucket := bucket.(type) {
		case *taxfolio.MoneyBucket:
			fmt.Fprintf(&b, "Closing balance: **%s**\n", bucket.Value.SignedString())
		case *taxfolio.DebtBucket:
			fmt.Fprintf(&b, "Closing balance: **%s**\n", bucket.Value.SignedString())
		case *taxfolio.AssetBucket:
			fmt.Fprintf(&b, "Closing position: %s units, cost **%s**\n", bucket.Units, bucket.Cost)
		case *taxfolio.PayeeBucket:
			fmt.Fprintf(&b, "Income **%s**, expense **%s**\n",
				bucket.Income.SignedString(), bucket.Expense.SignedString())
		}
	}
	return b.String()
}
