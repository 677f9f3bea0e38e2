package taxfolio

import "time"

// GBP is a helper for tests to create sterling money from const.
func GBP(v float64) Money { return M(v, "GBP") }

// on is a helper for tests to build dates tersely.
func on(y int, m time.Month, d int) Date { return NewDate(y, m, d) }

// testAccounts is the fixture account set most tests share.
type testAccounts struct {
	employer *Account
	bank     *Account
	current  *Account
	savings  *Account
	isa      *Account
	card     *Account
	shop     *Account
	fund     *Account
	acme     *Account
	bond     *Account
	taxman   *Account
}

func newTestLedger() (*Ledger, *testAccounts) {
	l := NewLedger("GBP")
	a := &testAccounts{
		employer: &Account{Name: "Employer", Class: ClassPayee},
		bank:     &Account{Name: "Bank", Class: ClassPayee},
		shop:     &Account{Name: "Shop", Class: ClassPayee},
		taxman:   &Account{Name: "HMRC", Class: ClassPayee},
		card:     &Account{Name: "Card", Class: ClassDebt},
		fund:     &Account{Name: "Fund", Class: ClassPriced, CapitalGains: true},
		acme:     &Account{Name: "Acme", Class: ClassPriced, CapitalGains: true},
		bond:     &Account{Name: "Bond", Class: ClassPriced, LifeBond: true},
	}
	a.current = &Account{Name: "Current", Class: ClassMoney, Parent: a.bank}
	a.savings = &Account{Name: "Savings", Class: ClassMoney, Parent: a.bank}
	a.isa = &Account{Name: "ISA", Class: ClassMoney, Parent: a.bank, TaxFree: true}
	for _, acct := range []*Account{
		a.employer, a.bank, a.shop, a.taxman, a.card,
		a.fund, a.acme, a.bond, a.current, a.savings, a.isa,
	} {
		l.AddAccount(acct)
	}
	l.TaxMan = a.taxman
	return l, a
}

var eventID int

func ev(d Date, cat Category, debit, credit *Account, amount Money) *Event {
	eventID++
	return &Event{ID: eventID, Date: d, Category: cat, Debit: debit, Credit: credit, Amount: amount}
}
