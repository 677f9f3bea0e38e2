package renderer

import (
	"fmt"
	"strings"

	"github.com/arlet/taxfolio"
)

// CapitalGainsMarkdown renders the per-asset capital ledgers: one section per
// asset with its lot movements, disposals and closing position.
func CapitalGainsMarkdown(a *taxfolio.Analysis) string {
	a.ValueAssets()

	var b strings.Builder
	fmt.Fprintf(&b, "# Capital Gains at %s\n\n", a.Date())

	empty := true
	for ledger := range a.CapitalLedgers() {
		if ledger.Len() == 0 {
			continue
		}
		empty = false
		fmt.Fprintf(&b, "## %s\n\n", ledger.Account().Name)
		fmt.Fprintln(&b, "| Date | Event | Units | Cost | Proceeds | Allowed Cost | Gains |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")
		for c := range ledger.All() {
			name := "valuation"
			if e := c.Event(); e != nil {
				name = e.Category.String()
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				c.Date(), name,
				unitsAttr(c, taxfolio.CapFinalUnits),
				moneyAttr(c, taxfolio.CapFinalCost),
				moneyAttr(c, taxfolio.CapProceeds),
				moneyAttr(c, taxfolio.CapAllowedCost),
				moneyAttr(c, taxfolio.CapDeltaGains))
		}
		fmt.Fprintln(&b)

		if bucket, ok := a.Accounts().Get(ledger.Account().Name); ok {
			if ab, ok := bucket.(*taxfolio.AssetBucket); ok {
				fmt.Fprintf(&b, "Closing position: %s units, cost %s, realized gains **%s**\n\n",
					ab.Units, ab.Cost, ab.Gains.SignedString())
			}
		}
	}
	if empty {
		fmt.Fprint(&b, "No capital events recorded.\n")
	}
	return b.String()
}

func moneyAttr(c *taxfolio.CapitalEvent, attr taxfolio.CapitalAttr) string {
	if m, ok := c.Money(attr); ok {
		return m.SignedString()
	}
	return ""
}

func unitsAttr(c *taxfolio.CapitalEvent, attr taxfolio.CapitalAttr) string {
	if u, ok := c.Units(attr); ok {
		return u.String()
	}
	return ""
}
