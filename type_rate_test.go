package taxfolio

import "testing"

func TestRate_ZeroChecks(t *testing.T) {
	if R(0).IsNonZero() {
		t.Error("zero rate reported non-zero")
	}
	if !R(0.2).IsNonZero() {
		t.Error("20% rate reported zero")
	}
	if !R(0).IsZero() || R(0.2).IsZero() {
		t.Error("IsZero disagrees with IsNonZero")
	}
}

func TestRate_Of_RoundsHalfUp(t *testing.T) {
	// 33.335 rounds up to 33.34 at two fraction digits.
	if got, want := R(0.2).Of(M(166.675, "GBP")), GBP(33.34); !got.Equal(want) {
		t.Errorf("rate of = %s, want %s", got, want)
	}
}

func TestParseRate_PercentEqualsFraction(t *testing.T) {
	percent, err := ParseRate("20%")
	if err != nil {
		t.Fatal(err)
	}
	fraction, err := ParseRate("0.2")
	if err != nil {
		t.Fatal(err)
	}
	if !percent.Equal(fraction) {
		t.Errorf("%s != %s", percent, fraction)
	}
	if _, err := ParseRate("wat"); err == nil {
		t.Error("ParseRate accepted garbage")
	}
}
