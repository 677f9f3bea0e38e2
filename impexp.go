package taxfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// this file contains functions to handle the import/export format.
// It should remain human readable, single file and be easy to merge.
//
// Every import is all-or-nothing: the whole input is validated before
// anything is returned, and the first offending literal aborts the import.

// ImportPrices imports price histories from 'r' in the import/export format.
//
// The format is a JSONL file, where each line is a JSON object with an
// 'account' property, an optional 'currency', and a 'history' object mapping
// dates to price literals.
func ImportPrices(r io.Reader) (*PriceList, error) {
	type jprices struct {
		Account  string            `json:"account"`
		Currency string            `json:"currency"`
		History  map[string]string `json:"history"`
	}

	var lines []jprices
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jp jprices
		if err := json.Unmarshal(line, &jp); err != nil {
			return nil, fmt.Errorf("cannot parse line for price import format: %q: %w", string(line), err)
		}
		lines = append(lines, jp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read price import: %w", err)
	}

	list := NewPriceList()
	for _, jp := range lines {
		for day, literal := range jp.History {
			on, err := ParseDate(day)
			if err != nil {
				return nil, fmt.Errorf("price history for %q: %w", jp.Account, err)
			}
			p, err := ParsePrice(literal, jp.Currency)
			if err != nil {
				return nil, fmt.Errorf("price history for %q on %s: %w", jp.Account, on, err)
			}
			list.Add(jp.Account, on, p)
		}
	}
	return list, nil
}

// ExportPrices exports the price list to 'w' in the import/export format.
func ExportPrices(w io.Writer, list *PriceList) error {
	type jprices struct {
		Account  string            `json:"account"`
		Currency string            `json:"currency,omitempty"`
		History  map[string]string `json:"history"`
	}

	for _, account := range list.Accounts() {
		jp := jprices{Account: account, History: make(map[string]string)}
		for day, p := range list.History(account) {
			jp.Currency = p.Currency()
			jp.History[day.String()] = p.value.String()
		}
		data, err := json.Marshal(jp)
		if err != nil {
			return fmt.Errorf("cannot marshal prices for %q: %w", account, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write price export: %w", err)
		}
	}
	return nil
}

// ImportRates imports interest-rate histories from 'r'. Each line holds an
// 'account' and a 'rates' object mapping dates to rate literals like "4.5%".
func ImportRates(r io.Reader) (*RateList, error) {
	type jrates struct {
		Account string            `json:"account"`
		Rates   map[string]string `json:"rates"`
	}

	var lines []jrates
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jr jrates
		if err := json.Unmarshal(line, &jr); err != nil {
			return nil, fmt.Errorf("cannot parse line for rate import format: %q: %w", string(line), err)
		}
		lines = append(lines, jr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read rate import: %w", err)
	}

	list := NewRateList()
	for _, jr := range lines {
		for day, literal := range jr.Rates {
			on, err := ParseDate(day)
			if err != nil {
				return nil, fmt.Errorf("rate history for %q: %w", jr.Account, err)
			}
			rate, err := ParseRate(literal)
			if err != nil {
				return nil, fmt.Errorf("rate history for %q on %s: %w", jr.Account, on, err)
			}
			list.Add(jr.Account, on, rate)
		}
	}
	return list, nil
}

// ExportRates exports the rate list to 'w' in the import/export format.
func ExportRates(w io.Writer, list *RateList) error {
	type jrates struct {
		Account string            `json:"account"`
		Rates   map[string]string `json:"rates"`
	}

	for _, account := range list.Accounts() {
		jr := jrates{Account: account, Rates: make(map[string]string)}
		for day, rate := range list.History(account) {
			jr.Rates[day.String()] = rate.String()
		}
		data, err := json.Marshal(jr)
		if err != nil {
			return fmt.Errorf("cannot marshal rates for %q: %w", account, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write rate export: %w", err)
		}
	}
	return nil
}

// ImportDilutions imports dilution factors from 'r' into a fresh tracker.
// Each line holds an 'account' known to the ledger and a 'dilutions' object
// mapping dates to factor literals in (0, 1].
func ImportDilutions(r io.Reader, l *Ledger) (*Dilutions, error) {
	type jdilutions struct {
		Account   string            `json:"account"`
		Dilutions map[string]string `json:"dilutions"`
	}

	var lines []jdilutions
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jd jdilutions
		if err := json.Unmarshal(line, &jd); err != nil {
			return nil, fmt.Errorf("cannot parse line for dilution import format: %q: %w", string(line), err)
		}
		lines = append(lines, jd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read dilution import: %w", err)
	}

	d := NewDilutions()
	for _, jd := range lines {
		account := l.Account(jd.Account)
		if account == nil {
			return nil, fmt.Errorf("dilution import: unknown account %q", jd.Account)
		}
		for day, literal := range jd.Dilutions {
			on, err := ParseDate(day)
			if err != nil {
				return nil, fmt.Errorf("dilutions for %q: %w", jd.Account, err)
			}
			if err := d.RecordImport(account, on, literal); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// ExportDilutions exports the dilution tracker to 'w' in the import/export
// format.
func ExportDilutions(w io.Writer, d *Dilutions) error {
	type jdilutions struct {
		Account   string            `json:"account"`
		Dilutions map[string]string `json:"dilutions"`
	}

	byAccount := make(map[string]*jdilutions)
	var order []string
	for ev := range d.All() {
		jd, ok := byAccount[ev.Account.Name]
		if !ok {
			jd = &jdilutions{Account: ev.Account.Name, Dilutions: make(map[string]string)}
			byAccount[ev.Account.Name] = jd
			order = append(order, ev.Account.Name)
		}
		jd.Dilutions[ev.Date.String()] = ev.Factor.String()
	}

	for _, account := range order {
		data, err := json.Marshal(byAccount[account])
		if err != nil {
			return fmt.Errorf("cannot marshal dilutions for %q: %w", account, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write dilution export: %w", err)
		}
	}
	return nil
}
