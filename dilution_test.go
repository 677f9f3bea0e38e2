package taxfolio

import (
	"strings"
	"testing"
	"time"
)

func TestDilutions_FactorsCompound(t *testing.T) {
	d := NewDilutions()
	acme := &Account{Name: "Acme", Class: ClassPriced}
	if err := d.RecordImport(acme, NewDate(2020, time.March, 1), "0.5"); err != nil {
		t.Fatalf("RecordImport() error = %v", err)
	}
	if err := d.RecordImport(acme, NewDate(2022, time.March, 1), "0.8"); err != nil {
		t.Fatalf("RecordImport() error = %v", err)
	}

	// A price observed before both actions compounds both factors.
	if got, want := d.FactorAfter(acme, NewDate(2019, time.January, 1)), D(0.4); !got.Equal(want) {
		t.Errorf("factor = %s, want %s", got, want)
	}
	// Between the two actions only the second applies.
	if got, want := d.FactorAfter(acme, NewDate(2021, time.January, 1)), D(0.8); !got.Equal(want) {
		t.Errorf("factor = %s, want %s", got, want)
	}
	// After both, nothing applies.
	if got := d.FactorAfter(acme, NewDate(2023, time.January, 1)); !got.IsNeutral() {
		t.Errorf("factor = %s, want neutral", got)
	}
}

func TestDilutions_RecordImportRejectsBadFactor(t *testing.T) {
	d := NewDilutions()
	acme := &Account{Name: "Acme", Class: ClassPriced}
	for _, bad := range []string{"0", "-0.5", "1.5", "half"} {
		if err := d.RecordImport(acme, NewDate(2020, time.March, 1), bad); err == nil {
			t.Errorf("RecordImport(%q) accepted an invalid factor", bad)
		}
	}
	if d.HasDilution(acme) {
		t.Error("invalid factors were recorded")
	}
}

func TestDilutions_UndilutePrice(t *testing.T) {
	d := NewDilutions()
	acme := &Account{Name: "Acme", Class: ClassPriced}
	if err := d.RecordImport(acme, NewDate(2020, time.March, 1), "0.5"); err != nil {
		t.Fatalf("RecordImport() error = %v", err)
	}
	got := d.UndilutePrice(acme, NewDate(2019, time.June, 1), P(10, "GBP"))
	if want := P(20, "GBP"); !got.Equal(want) {
		t.Errorf("undiluted price = %s, want %s", got, want)
	}
}

func TestParseDilution_ErrorNamesOffendingLiteral(t *testing.T) {
	_, err := ParseDilution("1.5")
	if err == nil {
		t.Fatal("ParseDilution(1.5) accepted a factor above one")
	}
	if got := err.Error(); !strings.Contains(got, "1.5") {
		t.Errorf("error %q does not name the offending literal", got)
	}
}
