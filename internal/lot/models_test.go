package lot

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeDerived(t *testing.T) {
	cases := []struct {
		name      string
		weight    string
		waste     string
		rate      string
		wantNet   string
		wantTotal string
	}{
		{"no waste no rate", "100", "0", "0", "100", "0"},
		{"two percent waste", "100", "2", "0", "98", "0"},
		{"rounding to three places", "33.333", "3.5", "0", "32.166", "0"},
		{"rate applied to net", "100", "2", "7250", "98", "710500"},
		{"fractional rate rounds to paise", "10.555", "1.5", "94.35", "10.397", "980.96"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := MaterialRow{
				Weight:       dec(tc.weight),
				WastePercent: dec(tc.waste),
				Rate:         dec(tc.rate),
			}
			row.ComputeDerived()
			assert.True(t, dec(tc.wantNet).Equal(row.NetWeight), "net: got %s", row.NetWeight)
			assert.True(t, dec(tc.wantTotal).Equal(row.Amount), "amount: got %s", row.Amount)
		})
	}
}

func TestExternalLabelProjection(t *testing.T) {
	cases := map[Status]string{
		StatusPending:            "Pending",
		StatusApproved:           "Approved",
		StatusRejected:           "Rejected",
		StatusInvoiced:           "Invoiced",
		StatusVerifiedByAccounts: "Received",
		StatusPaid:               "Paid",
		StatusInTransit:          "In Transit",
		StatusReceivedAtHub:      "Received",
		StatusMelted:             "Approved",
	}
	for status, want := range cases {
		assert.Equal(t, want, status.ExternalLabel(), string(status))
	}
}

func TestTotalsWithGST(t *testing.T) {
	l := Lot{Items: []MaterialRow{
		{Amount: dec("710500.00")},
		{Amount: dec("980.96")},
	}}

	subtotal, gst, grand := l.Totals(true)
	require.True(t, dec("711480.96").Equal(subtotal), "subtotal %s", subtotal)
	// 3% additive, never compounding
	require.True(t, dec("21344.43").Equal(gst), "gst %s", gst)
	require.True(t, dec("732825.39").Equal(grand), "grand %s", grand)

	subtotal, gst, grand = l.Totals(false)
	require.True(t, dec("711480.96").Equal(subtotal))
	require.True(t, gst.IsZero())
	require.True(t, dec("711480.96").Equal(grand))
}

func TestGrossWeight(t *testing.T) {
	l := Lot{Items: []MaterialRow{
		{Weight: dec("100.5")},
		{Weight: dec("49.2505")},
	}}
	assert.True(t, dec("149.751").Equal(l.GrossWeight()), "got %s", l.GrossWeight())
}
