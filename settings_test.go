package taxfolio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSettings = `
[general]
currency  = GBP
birthdate = 1960-05-01
taxman    = HMRC

[year.2025]
allowance         = 12570
addAllowanceLimit = 100000
rentalAllowance   = 1000
capitalAllowance  = 3000
basicBand         = 37700
addIncomeBoundary = 125140
basicRate         = 20%
hiRate            = 40%
addRate           = 45%
divRate           = 8.75%
hiDivRate         = 33.75%
addDivRate        = 39.35%
capRate           = 18%
hiCapRate         = 24%

[year.1999]
allowance       = 4335
loAgeAllowance  = 5720
basicBand       = 21400
loBand          = 1500
loRate          = 10%
basicRate       = 23%
hiRate          = 40%
capRate         = 20%
capitalAsIncome = true

[feed.Fund]
url  = https://example.org/quote
path = $.last
`

func loadTestSettings(t *testing.T, content string) (*Settings, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.ini")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return LoadSettings(path)
}

func TestLoadSettings(t *testing.T) {
	s, err := loadTestSettings(t, testSettings)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Currency != "GBP" || s.TaxMan != "HMRC" {
		t.Errorf("general = %q %q", s.Currency, s.TaxMan)
	}
	if got, want := s.BirthDate, NewDate(1960, time.May, 1); got != want {
		t.Errorf("birthdate = %s, want %s", got, want)
	}

	y, ok := s.Year(2025)
	if !ok {
		t.Fatal("year 2025 missing")
	}
	if !y.Allowance.Equal(GBP(12570)) || !y.BasicBand.Equal(GBP(37700)) {
		t.Errorf("2025 allowance %s basic band %s", y.Allowance, y.BasicBand)
	}
	if !y.BasicTaxRate.Equal(R(0.2)) || !y.HiCapTaxRate.Equal(R(0.24)) {
		t.Errorf("2025 rates %s %s", y.BasicTaxRate, y.HiCapTaxRate)
	}
	if !y.HasAdditionalBand() {
		t.Error("2025 should have an additional band")
	}
	if y.CapitalAsIncome {
		t.Error("2025 should use capital rates")
	}

	old, ok := s.Year(1999)
	if !ok {
		t.Fatal("year 1999 missing")
	}
	if !old.CapitalAsIncome || !old.HasLoBand() || old.HasAdditionalBand() {
		t.Error("1999 regime flags wrong")
	}
	if !old.LoAgeAllowance.Equal(GBP(5720)) {
		t.Errorf("1999 age allowance = %s", old.LoAgeAllowance)
	}

	feeds := s.Feeds()
	if len(feeds) != 1 || feeds[0].Account != "Fund" || feeds[0].Currency != "GBP" {
		t.Errorf("feeds = %+v", feeds)
	}
}

func TestLoadSettings_BadMoney(t *testing.T) {
	_, err := loadTestSettings(t, "[year.2025]\nallowance = lots\n")
	if err == nil {
		t.Fatal("LoadSettings() accepted a bad money literal")
	}
	if !strings.Contains(err.Error(), "allowance") {
		t.Errorf("error %q does not name the offending key", err)
	}
}

func TestLoadSettings_BadYear(t *testing.T) {
	_, err := loadTestSettings(t, "[year.soon]\nallowance = 1\n")
	if err == nil {
		t.Fatal("LoadSettings() accepted a bad year section")
	}
}

func TestLoadSettings_BadBirthdate(t *testing.T) {
	_, err := loadTestSettings(t, "[general]\nbirthdate = tomorrow\n")
	if err == nil {
		t.Fatal("LoadSettings() accepted a bad birthdate")
	}
}
