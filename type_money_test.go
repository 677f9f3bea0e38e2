package taxfolio

import "testing"

func TestMoney_Weighted(t *testing.T) {
	cost := GBP(1000)
	if got, want := cost.Weighted(U(50), U(100)), GBP(500); !got.Equal(want) {
		t.Errorf("weighted = %s, want %s", got, want)
	}
	// Rounds half up at the penny.
	if got, want := GBP(100).Weighted(U(1), U(3)), GBP(33.33); !got.Equal(want) {
		t.Errorf("weighted = %s, want %s", got, want)
	}
	if got := cost.Weighted(U(50), U(0)); got.IsNonZero() {
		t.Errorf("weighted by zero total = %s, want 0", got)
	}
}

func TestMoney_ValueWeighted(t *testing.T) {
	cost := GBP(10000)
	got := cost.ValueWeighted(GBP(4000), GBP(20000))
	if want := GBP(2000); !got.Equal(want) {
		t.Errorf("value weighted = %s, want %s", got, want)
	}
}

func TestRate_Of(t *testing.T) {
	if got, want := R(0.2).Of(GBP(1500)), GBP(300); !got.Equal(want) {
		t.Errorf("20%% of 1500 = %s, want %s", got, want)
	}
	// Half up at the penny: 0.125 of 0.1 is 0.0125 -> 0.01.
	if got, want := R(0.125).Of(GBP(0.1)), GBP(0.01); !got.Equal(want) {
		t.Errorf("rounding = %s, want %s", got, want)
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want Rate
	}{
		{"0.2", R(0.2)},
		{"20%", R(0.2)},
		{" 4.5% ", R(0.045)},
	}
	for _, tt := range tests {
		got, err := ParseRate(tt.in)
		if err != nil {
			t.Errorf("ParseRate(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseRate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if _, err := ParseRate("lots"); err == nil {
		t.Error("ParseRate accepted garbage")
	}
}

func TestPrice_ValueRounds(t *testing.T) {
	p := P(10.333, "GBP")
	if got, want := p.Value(U(3)), GBP(31.00); !got.Equal(want) {
		t.Errorf("value = %s, want %s", got, want)
	}
}

func TestPrice_DiluteUndiluteRoundTrip(t *testing.T) {
	p := P(100, "GBP")
	d := D(0.25)
	if got := p.Dilute(d).Undilute(d); !got.Equal(p) {
		t.Errorf("round trip = %s, want %s", got, p)
	}
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("12.34 GBP", "")
	if err != nil {
		t.Fatalf("ParsePrice() error = %v", err)
	}
	if p.Currency() != "GBP" || !p.Equal(P(12.34, "GBP")) {
		t.Errorf("parsed %s %s", p, p.Currency())
	}
	if _, err := ParsePrice("-1", "GBP"); err == nil {
		t.Error("ParsePrice accepted a negative price")
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	got := M(10, "").Add(GBP(5))
	if got.Currency() != "GBP" || !got.Equal(GBP(15)) {
		t.Errorf("weak currency add = %s %s", got, got.Currency())
	}
}
