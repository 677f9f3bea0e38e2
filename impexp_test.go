package taxfolio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrices_ExportImportRoundTrip(t *testing.T) {
	list := NewPriceList()
	list.Add("Fund", NewDate(2025, time.January, 2), P(10.5, "GBP"))
	list.Add("Fund", NewDate(2025, time.February, 2), P(11.25, "GBP"))
	list.Add("Acme", NewDate(2025, time.January, 2), P(99, "GBP"))

	var buf bytes.Buffer
	require.NoError(t, ExportPrices(&buf, list))

	got, err := ImportPrices(&buf)
	require.NoError(t, err)
	for _, account := range list.Accounts() {
		for day, want := range list.History(account) {
			p, ok := got.Latest(account, day)
			require.True(t, ok, "missing price for %s on %s", account, day)
			assert.True(t, p.Equal(want), "price for %s on %s: %s != %s", account, day, p, want)
		}
	}
}

func TestImportPrices_RejectsBadLiteral(t *testing.T) {
	in := `{"account":"Fund","currency":"GBP","history":{"2025-01-02":"-5"}}`
	_, err := ImportPrices(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-5")
}

func TestImportPrices_RejectsBadLine(t *testing.T) {
	_, err := ImportPrices(strings.NewReader("not json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not json")
}

func TestImportPrices_SkipsBlankLines(t *testing.T) {
	in := "\n" + `{"account":"Fund","currency":"GBP","history":{"2025-01-02":"10"}}` + "\n\n"
	list, err := ImportPrices(strings.NewReader(in))
	require.NoError(t, err)
	p, ok := list.Latest("Fund", NewDate(2025, time.January, 2))
	require.True(t, ok)
	assert.True(t, p.Equal(P(10, "GBP")))
}

func TestRates_ExportImportRoundTrip(t *testing.T) {
	list := NewRateList()
	list.Add("Savings", NewDate(2025, time.January, 1), R(0.045))
	list.Add("Savings", NewDate(2025, time.July, 1), R(0.04))

	var buf bytes.Buffer
	require.NoError(t, ExportRates(&buf, list))

	got, err := ImportRates(&buf)
	require.NoError(t, err)
	r, ok := got.Latest("Savings", NewDate(2025, time.August, 1))
	require.True(t, ok)
	assert.True(t, r.Equal(R(0.04)), "rate = %s", r)
}

func TestDilutions_ExportImportRoundTrip(t *testing.T) {
	l, acc := newTestLedger()
	d := NewDilutions()
	require.NoError(t, d.RecordImport(acc.fund, NewDate(2020, time.March, 1), "0.5"))
	require.NoError(t, d.RecordImport(acc.fund, NewDate(2022, time.March, 1), "0.8"))

	var buf bytes.Buffer
	require.NoError(t, ExportDilutions(&buf, d))

	got, err := ImportDilutions(&buf, l)
	require.NoError(t, err)
	factor := got.FactorAfter(acc.fund, NewDate(2019, time.January, 1))
	assert.True(t, factor.Equal(D(0.4)), "factor = %s", factor)
}

func TestImportDilutions_AllOrNothing(t *testing.T) {
	l, _ := newTestLedger()
	in := `{"account":"Fund","dilutions":{"2020-03-01":"0.5"}}
{"account":"Fund","dilutions":{"2022-03-01":"1.5"}}`
	_, err := ImportDilutions(strings.NewReader(in), l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1.5")
}

func TestImportDilutions_UnknownAccount(t *testing.T) {
	l, _ := newTestLedger()
	in := `{"account":"Nobody","dilutions":{"2020-03-01":"0.5"}}`
	_, err := ImportDilutions(strings.NewReader(in), l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nobody")
}
