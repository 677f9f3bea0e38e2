package taxfolio

import "testing"

func TestAccountBuckets_ClassVariants(t *testing.T) {
	_, acc := newTestLedger()
	s := NewAccountBuckets("GBP", nil)
	if _, ok := s.Bucket(acc.current).(*MoneyBucket); !ok {
		t.Error("money account did not get a money bucket")
	}
	if _, ok := s.Bucket(acc.card).(*DebtBucket); !ok {
		t.Error("debt account did not get a debt bucket")
	}
	if _, ok := s.Bucket(acc.fund).(*AssetBucket); !ok {
		t.Error("priced account did not get an asset bucket")
	}
	if _, ok := s.Bucket(acc.shop).(*PayeeBucket); !ok {
		t.Error("payee account did not get a payee bucket")
	}
	if got := s.Len(); got != 4 {
		t.Errorf("len = %d, want 4", got)
	}
	// Second lookup returns the same bucket.
	if s.Bucket(acc.current) != s.Bucket(acc.current) {
		t.Error("bucket not cached")
	}
}

func TestAccountBuckets_UnknownClassPanics(t *testing.T) {
	s := NewAccountBuckets("GBP", nil)
	defer func() {
		if recover() == nil {
			t.Error("unknown account class did not panic")
		}
	}()
	s.Bucket(&Account{Name: "X", Class: AccountClass(99)})
}

func TestAccountBuckets_AliasResolvesToOneBucket(t *testing.T) {
	real := &Account{Name: "Real", Class: ClassMoney}
	alias := &Account{Name: "Old name", Class: ClassMoney, Alias: real}
	s := NewAccountBuckets("GBP", nil)
	if s.Bucket(alias) != s.Bucket(real) {
		t.Error("alias got its own bucket")
	}
}

func TestMoneyBucket_OpeningBalanceAndAutoExpense(t *testing.T) {
	opening := &Account{Name: "Opened", Class: ClassMoney, OpeningBalance: GBP(250)}
	s := NewAccountBuckets("GBP", nil)
	b := s.Bucket(opening).(*MoneyBucket)
	if got, want := b.Value, GBP(250); !got.Equal(want) {
		t.Errorf("opening balance = %s, want %s", got, want)
	}

	petty := &Account{Name: "Petty", Class: ClassMoney, AutoExpense: CatExpense, HasAutoExpense: true}
	p := s.Bucket(petty).(*MoneyBucket)
	p.adjustForDebit(&Event{Amount: GBP(30)})
	if p.Value.IsNonZero() {
		t.Errorf("auto-expense account tracked a balance: %s", p.Value)
	}
	if got, want := p.Expense, GBP(-30); !got.Equal(want) {
		t.Errorf("expense = %s, want %s", got, want)
	}
}

func TestDebtBucket_SpendExcludesTransfers(t *testing.T) {
	card := &Account{Name: "Card", Class: ClassDebt}
	s := NewAccountBuckets("GBP", nil)
	b := s.Bucket(card).(*DebtBucket)
	b.adjustForCredit(&Event{Category: CatExpense, Amount: GBP(80)})
	b.adjustForCredit(&Event{Category: CatTransfer, Amount: GBP(500)})
	if got, want := b.Spend, GBP(80); !got.Equal(want) {
		t.Errorf("spend = %s, want %s", got, want)
	}
	if got, want := b.Value, GBP(580); !got.Equal(want) {
		t.Errorf("value = %s, want %s", got, want)
	}
}

func TestBucket_SavePointConsumedOnRestore(t *testing.T) {
	acct := &Account{Name: "A", Class: ClassMoney}
	s := NewAccountBuckets("GBP", nil)
	b := s.Bucket(acct).(*MoneyBucket)
	b.adjustForCredit(&Event{Amount: GBP(100)})

	b.CreateSavePoint()
	b.adjustForCredit(&Event{Amount: GBP(50)})
	b.RestoreSavePoint()
	if got, want := b.Value, GBP(100); !got.Equal(want) {
		t.Errorf("value after restore = %s, want %s", got, want)
	}

	// The save point is consumed: a second restore changes nothing.
	b.adjustForCredit(&Event{Amount: GBP(7)})
	b.RestoreSavePoint()
	if got, want := b.Value, GBP(107); !got.Equal(want) {
		t.Errorf("value after stray restore = %s, want %s", got, want)
	}
}

func TestAccountBuckets_PruneKeepsPriorActive(t *testing.T) {
	acct := &Account{Name: "A", Class: ClassMoney}
	empty := &Account{Name: "B", Class: ClassMoney}

	prev := NewAccountBuckets("GBP", nil)
	prev.Bucket(acct).(*MoneyBucket).adjustForCredit(&Event{Amount: GBP(10)})
	prev.Bucket(empty)

	s := NewAccountBuckets("GBP", prev)
	s.Bucket(acct)  // zero now, active last period
	s.Bucket(empty) // zero in both
	s.Prune()

	if _, ok := s.Get("A"); !ok {
		t.Error("bucket active last period was pruned")
	}
	if _, ok := s.Get("B"); ok {
		t.Error("bucket inactive in both periods survived pruning")
	}
}

func TestCategoryBuckets_SavePointRoundTrip(t *testing.T) {
	s := NewCategoryBuckets("GBP", nil)
	b := s.Bucket(CatExpense)
	b.add(&Event{Amount: GBP(40)})
	s.CreateSavePoint()
	b.add(&Event{Amount: GBP(60), TaxCredit: GBP(5)})
	s.RestoreSavePoint()
	if got, want := b.Amount, GBP(40); !got.Equal(want) {
		t.Errorf("amount after restore = %s, want %s", got, want)
	}
	if b.TaxCredit.IsNonZero() {
		t.Errorf("credit after restore = %s, want 0", b.TaxCredit)
	}
}

func TestTaxCategoryBuckets_Fold(t *testing.T) {
	ev := func(c Category, amount, credit float64) *CategoryBucket {
		b := newCategoryBucket(c, nil, "GBP")
		b.Amount = GBP(amount)
		b.TaxCredit = GBP(credit)
		return b
	}
	s := NewTaxCategoryBuckets("GBP", nil)
	s.fold(ev(CatTaxedIncome, 2200, 300))
	s.fold(ev(CatBenefitIncome, 100, 0))
	s.fold(ev(CatExpense, 400, 0))
	s.fold(ev(CatMarketGrowth, 50, 0))
	s.fold(ev(CatCapitalGain, 1000, 0))
	s.fold(ev(CatCapitalLoss, 300, 0))

	salary, _ := s.Get(TaxGrossSalary)
	if got, want := salary.Amount, GBP(2600); !got.Equal(want) {
		t.Errorf("gross salary = %s, want %s", got, want)
	}
	capital, _ := s.Get(TaxGrossCapitalGains)
	if got, want := capital.Amount, GBP(700); !got.Equal(want) {
		t.Errorf("net capital gains = %s, want %s", got, want)
	}
	// Benefit income feeds gross salary but cancels out of core profit.
	// core profit: 2500 salary - 400 expense + 1000 gain - 300 loss = 2800.
	if got, want := s.CoreProfit, GBP(2800); !got.Equal(want) {
		t.Errorf("core profit = %s, want %s", got, want)
	}
	// Market growth counts in the overall profit only.
	if got, want := s.ProfitLoss, GBP(2850); !got.Equal(want) {
		t.Errorf("profit/loss = %s, want %s", got, want)
	}
}

func TestAssetBucket_GainedTracksGainsAndDividends(t *testing.T) {
	acct := &Account{Name: "Fund", Class: ClassPriced}
	s := NewAccountBuckets("GBP", nil)
	b := s.Asset(acct)
	b.addGains(GBP(200))
	b.addDividend(GBP(50))
	if got, want := b.Gained, GBP(250); !got.Equal(want) {
		t.Errorf("gained = %s, want %s", got, want)
	}
	if got, want := b.Gains, GBP(200); !got.Equal(want) {
		t.Errorf("gains = %s, want %s", got, want)
	}
}
