package taxfolio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// Settings holds the user preferences, the tax-year tables and the quote
// feeds read from the settings file.
//
// The file is INI: a [general] section for the preferences, one [year.YYYY]
// section per fiscal year, and one [feed.Account] section per quote feed.
// Money keys are bare decimal literals in the reporting currency; rate keys
// accept "0.2" or "20%".
type Settings struct {
	Currency  string
	BirthDate Date
	TaxMan    string // name of the tax-authority payee account

	years map[int]*TaxYear
	feeds []Feed
}

// Year returns the tax-year table for the year ending in that calendar year.
func (s *Settings) Year(year int) (*TaxYear, bool) {
	y, ok := s.years[year]
	return y, ok
}

// Feeds returns the configured quote feeds.
func (s *Settings) Feeds() []Feed { return s.feeds }

// LoadSettings reads a settings file.
func LoadSettings(path string) (*Settings, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load settings %q: %w", path, err)
	}
	return parseSettings(f)
}

func parseSettings(f *ini.File) (*Settings, error) {
	general := f.Section("general")
	s := &Settings{
		Currency: general.Key("currency").MustString("GBP"),
		TaxMan:   general.Key("taxman").String(),
		years:    make(map[int]*TaxYear),
	}
	if birth := general.Key("birthdate").String(); birth != "" {
		d, err := ParseDate(birth)
		if err != nil {
			return nil, fmt.Errorf("settings general.birthdate: %w", err)
		}
		s.BirthDate = d
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		switch {
		case strings.HasPrefix(name, "year."):
			year, err := strconv.Atoi(strings.TrimPrefix(name, "year."))
			if err != nil {
				return nil, fmt.Errorf("settings section %q: invalid year", name)
			}
			y, err := parseTaxYear(sec, year, s.Currency)
			if err != nil {
				return nil, err
			}
			s.years[year] = y
		case strings.HasPrefix(name, "feed."):
			s.feeds = append(s.feeds, Feed{
				Account:  strings.TrimPrefix(name, "feed."),
				URL:      sec.Key("url").String(),
				Path:     sec.Key("path").String(),
				Currency: sec.Key("currency").MustString(s.Currency),
			})
		}
	}
	return s, nil
}

// sectionParser reads typed keys out of one INI section, remembering the
// first failure so callers can read every key and check once.
type sectionParser struct {
	sec      *ini.Section
	currency string
	err      error
}

func (p *sectionParser) money(key string) Money {
	if p.err != nil || !p.sec.HasKey(key) {
		return M(0, p.currency)
	}
	m, err := ParseMoney(p.sec.Key(key).String(), p.currency)
	if err != nil {
		p.err = fmt.Errorf("settings %s.%s: %w", p.sec.Name(), key, err)
	}
	return m
}

func (p *sectionParser) rate(key string) Rate {
	if p.err != nil || !p.sec.HasKey(key) {
		return R(0)
	}
	r, err := ParseRate(p.sec.Key(key).String())
	if err != nil {
		p.err = fmt.Errorf("settings %s.%s: %w", p.sec.Name(), key, err)
	}
	return r
}

func parseTaxYear(sec *ini.Section, year int, currency string) (*TaxYear, error) {
	p := &sectionParser{sec: sec, currency: currency}
	y := &TaxYear{
		Year: year,

		Allowance:         p.money("allowance"),
		LoAgeAllowance:    p.money("loAgeAllowance"),
		HiAgeAllowance:    p.money("hiAgeAllowance"),
		AgeAllowanceLimit: p.money("ageAllowanceLimit"),
		AddAllowanceLimit: p.money("addAllowanceLimit"),
		RentalAllowance:   p.money("rentalAllowance"),
		CapitalAllowance:  p.money("capitalAllowance"),

		LoBand:            p.money("loBand"),
		BasicBand:         p.money("basicBand"),
		AddIncomeBoundary: p.money("addIncomeBoundary"),

		LoTaxRate:    p.rate("loRate"),
		BasicTaxRate: p.rate("basicRate"),
		HiTaxRate:    p.rate("hiRate"),
		AddTaxRate:   p.rate("addRate"),

		IntTaxRate: p.rate("intRate"),

		DivTaxRate:    p.rate("divRate"),
		HiDivTaxRate:  p.rate("hiDivRate"),
		AddDivTaxRate: p.rate("addDivRate"),

		CapTaxRate:   p.rate("capRate"),
		HiCapTaxRate: p.rate("hiCapRate"),

		CapitalAsIncome: sec.Key("capitalAsIncome").MustBool(false),
	}
	if p.err != nil {
		return nil, p.err
	}
	return y, nil
}
