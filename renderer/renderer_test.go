package renderer

import (
	"bytes"
	"testing"
	"time"

	"github.com/arlet/taxfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

type fixture struct {
	l        *taxfolio.Ledger
	employer *taxfolio.Account
	bank     *taxfolio.Account
	shop     *taxfolio.Account
	taxman   *taxfolio.Account
	current  *taxfolio.Account
	fund     *taxfolio.Account
}

// newFixture builds a small ledger within the 2024-2025 tax year: a salary
// with tax deducted at source, an expense, and a partial fund disposal.
func newFixture() *fixture {
	f := &fixture{
		l:        taxfolio.NewLedger("GBP"),
		employer: &taxfolio.Account{Name: "Employer", Class: taxfolio.ClassPayee},
		bank:     &taxfolio.Account{Name: "Bank", Class: taxfolio.ClassPayee},
		shop:     &taxfolio.Account{Name: "Shop", Class: taxfolio.ClassPayee},
		taxman:   &taxfolio.Account{Name: "HMRC", Class: taxfolio.ClassPayee},
		fund:     &taxfolio.Account{Name: "Fund", Class: taxfolio.ClassPriced, CapitalGains: true},
	}
	f.current = &taxfolio.Account{Name: "Current", Class: taxfolio.ClassMoney, Parent: f.bank}
	for _, a := range []*taxfolio.Account{f.employer, f.bank, f.shop, f.taxman, f.current, f.fund} {
		f.l.AddAccount(a)
	}
	f.l.TaxMan = f.taxman

	salary := &taxfolio.Event{
		ID: 1, Date: taxfolio.NewDate(2025, time.January, 15),
		Category: taxfolio.CatTaxedIncome, Debit: f.employer, Credit: f.current,
		Amount: taxfolio.M(2500, "GBP"), TaxCredit: taxfolio.M(300, "GBP"),
	}
	expense := &taxfolio.Event{
		ID: 2, Date: taxfolio.NewDate(2025, time.January, 20),
		Category: taxfolio.CatExpense, Debit: f.current, Credit: f.shop,
		Amount: taxfolio.M(400, "GBP"),
	}
	buy := &taxfolio.Event{
		ID: 3, Date: taxfolio.NewDate(2025, time.February, 1),
		Category: taxfolio.CatTransfer, Debit: f.current, Credit: f.fund,
		Amount: taxfolio.M(1000, "GBP"), CreditUnits: taxfolio.U(100),
	}
	sell := &taxfolio.Event{
		ID: 4, Date: taxfolio.NewDate(2025, time.March, 10),
		Category: taxfolio.CatTransfer, Debit: f.fund, Credit: f.current,
		Amount: taxfolio.M(700, "GBP"), DebitUnits: taxfolio.U(50),
	}
	f.l.Append(salary, expense, buy, sell)
	f.l.Prices().Add("Fund", taxfolio.NewDate(2025, time.March, 20), taxfolio.P(14, "GBP"))
	return f
}

// renders asserts the markdown parses cleanly.
func renders(t *testing.T, md string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, goldmark.Convert([]byte(md), &buf))
	assert.NotEmpty(t, buf.String())
}

func TestSummaryMarkdown(t *testing.T) {
	f := newFixture()
	a, err := taxfolio.AnalyseDated(f.l, taxfolio.NewDate(2025, time.April, 5))
	require.NoError(t, err)

	md := SummaryMarkdown(a)
	renders(t, md)
	assert.Contains(t, md, "## Wealth")
	assert.Contains(t, md, "| Current |")
	assert.Contains(t, md, "| Fund |")
	assert.Contains(t, md, "| Employer |")
	assert.Contains(t, md, "## Tax Summary")
	assert.Contains(t, md, "Profit/loss")
}

func TestTaxMarkdown(t *testing.T) {
	f := newFixture()
	year := &taxfolio.TaxYear{
		Year:             2025,
		Allowance:        taxfolio.M(1000, "GBP"),
		BasicBand:        taxfolio.M(2000, "GBP"),
		BasicTaxRate:     taxfolio.R(0.2),
		HiTaxRate:        taxfolio.R(0.4),
		CapitalAllowance: taxfolio.M(500, "GBP"),
		CapTaxRate:       taxfolio.R(0.1),
	}
	a, err := taxfolio.AnalyseYear(f.l, year, nil)
	require.NoError(t, err)

	md := TaxMarkdown(a)
	renders(t, md)
	assert.Contains(t, md, "# Tax Liability 2024-2025")
	assert.Contains(t, md, "## Tax on salary")
	assert.Contains(t, md, "personal allowance")
	assert.Contains(t, md, "basic rate")
	assert.Contains(t, md, "annual exemption")
	assert.Contains(t, md, "## Position")
}

func TestTaxMarkdown_WithoutYear(t *testing.T) {
	f := newFixture()
	a, err := taxfolio.AnalyseDated(f.l, taxfolio.NewDate(2025, time.April, 5))
	require.NoError(t, err)
	assert.Contains(t, TaxMarkdown(a), "No tax year")
}

func TestCapitalGainsMarkdown(t *testing.T) {
	f := newFixture()
	a, err := taxfolio.AnalyseDated(f.l, taxfolio.NewDate(2025, time.April, 5))
	require.NoError(t, err)

	md := CapitalGainsMarkdown(a)
	renders(t, md)
	assert.Contains(t, md, "## Fund")
	assert.Contains(t, md, "Transfer")
	assert.Contains(t, md, "Closing position")
}

func TestCapitalGainsMarkdown_Empty(t *testing.T) {
	l := taxfolio.NewLedger("GBP")
	a, err := taxfolio.AnalyseDated(l, taxfolio.NewDate(2025, time.April, 5))
	require.NoError(t, err)
	assert.Contains(t, CapitalGainsMarkdown(a), "No capital events")
}

func TestStatementMarkdown(t *testing.T) {
	f := newFixture()
	from := taxfolio.NewDate(2025, time.January, 1)
	to := taxfolio.NewDate(2025, time.April, 5)
	a, err := taxfolio.AnalyseStatement(f.l, f.current, from, to)
	require.NoError(t, err)

	md := StatementMarkdown(a, f.current, from, to)
	renders(t, md)
	assert.Contains(t, md, "# Statement for Current")
	assert.Contains(t, md, "| Employer |")
	assert.Contains(t, md, "| Shop |")
	assert.Contains(t, md, "Closing balance")
}
