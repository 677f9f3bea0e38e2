package taxfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Ledger file format: one JSON object per line, identified by the "record"
// field. Account records come before the events that reference them; events
// carry bare decimal literals in the ledger's reporting currency.

type jaccount struct {
	Record         string `json:"record"`
	Name           string `json:"name"`
	Class          string `json:"class"`
	Parent         string `json:"parent,omitempty"`
	Alias          string `json:"alias,omitempty"`
	TaxFree        bool   `json:"taxFree,omitempty"`
	CapitalGains   bool   `json:"capitalGains,omitempty"`
	LifeBond       bool   `json:"lifeBond,omitempty"`
	AutoExpense    string `json:"autoExpense,omitempty"`
	OpeningBalance string `json:"openingBalance,omitempty"`
	Maturity       string `json:"maturity,omitempty"`
}

type jevent struct {
	Record       string `json:"record"`
	ID           int    `json:"id"`
	Date         string `json:"date"`
	Category     string `json:"category"`
	Debit        string `json:"debit"`
	Credit       string `json:"credit"`
	Amount       string `json:"amount"`
	DebitUnits   string `json:"debitUnits,omitempty"`
	CreditUnits  string `json:"creditUnits,omitempty"`
	TaxCredit    string `json:"taxCredit,omitempty"`
	NatInsurance string `json:"natInsurance,omitempty"`
	Benefit      string `json:"benefit,omitempty"`
	Donation     string `json:"donation,omitempty"`
	Dilution     string `json:"dilution,omitempty"`
	Years        int    `json:"years,omitempty"`
	Parent       int    `json:"parent,omitempty"`
	Deleted      bool   `json:"deleted,omitempty"`
}

func moneyLiteral(m Money) string {
	if m.IsZero() {
		return ""
	}
	return m.value.String()
}

func unitsLiteral(u Units) string {
	if u.IsZero() {
		return ""
	}
	return u.String()
}

// EncodeLedger writes the ledger's accounts and events to 'w', one JSON
// object per line.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for a := range l.Accounts() {
		ja := jaccount{
			Record:       "account",
			Name:         a.Name,
			Class:        a.Class.String(),
			TaxFree:      a.TaxFree,
			CapitalGains: a.CapitalGains,
			LifeBond:     a.LifeBond,
		}
		if a.Parent != nil {
			ja.Parent = a.Parent.Name
		}
		if a.Alias != nil {
			ja.Alias = a.Alias.Name
		}
		if a.HasAutoExpense {
			ja.AutoExpense = a.AutoExpense.String()
		}
		ja.OpeningBalance = moneyLiteral(a.OpeningBalance)
		if !a.Maturity.IsZero() {
			ja.Maturity = a.Maturity.String()
		}
		if err := writeRecord(w, ja); err != nil {
			return fmt.Errorf("cannot encode account %q: %w", a.Name, err)
		}
	}
	for e := range l.Events() {
		if err := EncodeEvent(w, e); err != nil {
			return err
		}
	}
	return nil
}

// EncodeEvent appends one event to 'w' in the ledger format.
func EncodeEvent(w io.Writer, e *Event) error {
	je := jevent{
		Record:       "event",
		ID:           e.ID,
		Date:         e.Date.String(),
		Category:     e.Category.String(),
		Debit:        e.Debit.Name,
		Credit:       e.Credit.Name,
		Amount:       e.Amount.value.String(),
		DebitUnits:   unitsLiteral(e.DebitUnits),
		CreditUnits:  unitsLiteral(e.CreditUnits),
		TaxCredit:    moneyLiteral(e.TaxCredit),
		NatInsurance: moneyLiteral(e.NatInsurance),
		Benefit:      moneyLiteral(e.Benefit),
		Donation:     moneyLiteral(e.Donation),
		Years:        e.Years,
		Deleted:      e.Deleted,
	}
	if e.HasDilution() {
		je.Dilution = e.Dilution.String()
	}
	if e.Parent != nil {
		je.Parent = e.Parent.ID
	}
	if err := writeRecord(w, je); err != nil {
		return fmt.Errorf("cannot encode event %d: %w", e.ID, err)
	}
	return nil
}

func writeRecord(w io.Writer, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// DecodeLedger decodes a JSONL ledger from 'r' into a fresh ledger with the
// given reporting currency. The whole input is validated before the ledger is
// returned; the first offending line aborts the decode.
func DecodeLedger(r io.Reader, currency string) (*Ledger, error) {
	var jaccounts []jaccount
	var jevents []jevent

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var probe struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			return nil, fmt.Errorf("cannot identify ledger record %q: %w", string(line), err)
		}
		switch probe.Record {
		case "account":
			var ja jaccount
			if err := json.Unmarshal(line, &ja); err != nil {
				return nil, fmt.Errorf("cannot parse account record %q: %w", string(line), err)
			}
			jaccounts = append(jaccounts, ja)
		case "event":
			var je jevent
			if err := json.Unmarshal(line, &je); err != nil {
				return nil, fmt.Errorf("cannot parse event record %q: %w", string(line), err)
			}
			jevents = append(jevents, je)
		default:
			return nil, fmt.Errorf("unknown ledger record kind %q in %q", probe.Record, string(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read ledger: %w", err)
	}

	l := NewLedger(currency)
	for _, ja := range jaccounts {
		a, err := decodeAccount(ja, currency)
		if err != nil {
			return nil, err
		}
		l.AddAccount(a)
	}
	// Parent and alias links may point forward; resolve them once every
	// account exists.
	for _, ja := range jaccounts {
		a := l.Account(ja.Name)
		if ja.Parent != "" {
			if a.Parent = l.Account(ja.Parent); a.Parent == nil {
				return nil, fmt.Errorf("account %q: unknown parent %q", ja.Name, ja.Parent)
			}
		}
		if ja.Alias != "" {
			if a.Alias = l.Account(ja.Alias); a.Alias == nil {
				return nil, fmt.Errorf("account %q: unknown alias target %q", ja.Name, ja.Alias)
			}
		}
	}

	events := make([]*Event, 0, len(jevents))
	byID := make(map[int]*Event, len(jevents))
	for _, je := range jevents {
		e, err := decodeEvent(l, je, currency)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
		byID[e.ID] = e
	}
	for i, je := range jevents {
		if je.Parent == 0 {
			continue
		}
		parent, ok := byID[je.Parent]
		if !ok {
			return nil, fmt.Errorf("event %d: unknown parent event %d", je.ID, je.Parent)
		}
		events[i].Parent = parent
	}
	l.Append(events...)
	return l, nil
}

func decodeAccount(ja jaccount, currency string) (*Account, error) {
	class, err := ParseAccountClass(ja.Class)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", ja.Name, err)
	}
	a := &Account{
		Name:         ja.Name,
		Class:        class,
		TaxFree:      ja.TaxFree,
		CapitalGains: ja.CapitalGains,
		LifeBond:     ja.LifeBond,
	}
	if ja.AutoExpense != "" {
		cat, err := ParseCategory(ja.AutoExpense)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", ja.Name, err)
		}
		a.AutoExpense = cat
		a.HasAutoExpense = true
	}
	if ja.OpeningBalance != "" {
		if a.OpeningBalance, err = ParseMoney(ja.OpeningBalance, currency); err != nil {
			return nil, fmt.Errorf("account %q: %w", ja.Name, err)
		}
	}
	if ja.Maturity != "" {
		if a.Maturity, err = ParseDate(ja.Maturity); err != nil {
			return nil, fmt.Errorf("account %q: %w", ja.Name, err)
		}
	}
	return a, nil
}

func decodeEvent(l *Ledger, je jevent, currency string) (*Event, error) {
	fail := func(err error) (*Event, error) {
		return nil, fmt.Errorf("event %d on %s: %w", je.ID, je.Date, err)
	}

	date, err := ParseDate(je.Date)
	if err != nil {
		return fail(err)
	}
	category, err := ParseCategory(je.Category)
	if err != nil {
		return fail(err)
	}
	debit := l.Account(je.Debit)
	if debit == nil {
		return fail(fmt.Errorf("unknown debit account %q", je.Debit))
	}
	credit := l.Account(je.Credit)
	if credit == nil {
		return fail(fmt.Errorf("unknown credit account %q", je.Credit))
	}

	e := &Event{
		ID:       je.ID,
		Date:     date,
		Category: category,
		Debit:    debit,
		Credit:   credit,
		Years:    je.Years,
		Deleted:  je.Deleted,
	}
	money := func(dst *Money, literal string) error {
		if literal == "" {
			*dst = M(0, currency)
			return nil
		}
		m, err := ParseMoney(literal, currency)
		if err != nil {
			return err
		}
		*dst = m
		return nil
	}
	if err := money(&e.Amount, je.Amount); err != nil {
		return fail(err)
	}
	if err := money(&e.TaxCredit, je.TaxCredit); err != nil {
		return fail(err)
	}
	if err := money(&e.NatInsurance, je.NatInsurance); err != nil {
		return fail(err)
	}
	if err := money(&e.Benefit, je.Benefit); err != nil {
		return fail(err)
	}
	if err := money(&e.Donation, je.Donation); err != nil {
		return fail(err)
	}
	if je.DebitUnits != "" {
		if e.DebitUnits, err = ParseUnits(je.DebitUnits); err != nil {
			return fail(err)
		}
	}
	if je.CreditUnits != "" {
		if e.CreditUnits, err = ParseUnits(je.CreditUnits); err != nil {
			return fail(err)
		}
	}
	if je.Dilution != "" {
		if e.Dilution, err = ParseDilution(je.Dilution); err != nil {
			return fail(err)
		}
	}
	return e, nil
}
