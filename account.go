package taxfolio

import "fmt"

// AccountClass tags the behaviour of an account. Exactly one bucket variant
// exists per class.
type AccountClass int

const (
	// ClassMoney is a valued cash account (current, savings, ISA cash).
	ClassMoney AccountClass = iota
	// ClassDebt is a debt account (credit card, loan).
	ClassDebt
	// ClassPriced is a priced asset holding units (stock, fund, life bond).
	ClassPriced
	// ClassPayee is an external payee or payer (employer, shop, tax authority).
	ClassPayee
)

func (c AccountClass) String() string {
	switch c {
	case ClassMoney:
		return "money"
	case ClassDebt:
		return "debt"
	case ClassPriced:
		return "priced"
	case ClassPayee:
		return "payee"
	}
	return "unknown"
}

// ParseAccountClass parses a class name as produced by String.
func ParseAccountClass(str string) (AccountClass, error) {
	for _, c := range []AccountClass{ClassMoney, ClassDebt, ClassPriced, ClassPayee} {
		if c.String() == str {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown account class %q", str)
}

// Account is a reference to an account in the ledger. The analysis engine
// never mutates an Account; it only reads its classification.
type Account struct {
	Name  string
	Class AccountClass

	// Parent is the owning account for interest and dividend redirection:
	// interest paid by a savings account is income from the account's parent
	// payee (the bank), not from the account itself.
	Parent *Account

	// Alias points at the account this one is an alias of, or nil.
	Alias *Account

	// TaxFree marks accounts whose income is exempt (ISA and the like).
	TaxFree bool

	// CapitalGains marks priced assets eligible for capital gains tax.
	CapitalGains bool

	// LifeBond marks priced assets whose gains are chargeable (life policies),
	// taxed with top-slicing relief rather than as capital gains.
	LifeBond bool

	// AutoExpense, when set, turns plain cash movements on this account into
	// expense movements of that category (petty-cash style accounts).
	AutoExpense Category
	// HasAutoExpense must be true for AutoExpense to apply: the Category zero
	// value is a real category.
	HasAutoExpense bool

	OpeningBalance Money
	Maturity       Date
}

// Resolve follows the alias chain to the real account.
func (a *Account) Resolve() *Account {
	r := a
	for r.Alias != nil {
		r = r.Alias
	}
	return r
}

// HasUnits reports whether the account is a priced asset holding units.
func (a *Account) HasUnits() bool { return a.Class == ClassPriced }

// HasValue reports whether the account carries a money balance.
func (a *Account) HasValue() bool { return a.Class == ClassMoney || a.Class == ClassDebt }

// IsPayee reports whether the account is an external payee or payer.
func (a *Account) IsPayee() bool { return a.Class == ClassPayee }
