package kyc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerhoeffValid(t *testing.T) {
	cases := []struct {
		number string
		want   bool
	}{
		{"234567890124", true},
		{"999998888815", true},
		{"412345678902", true},
		{"555556666779", true},
		// sequential digits do not form a valid checksum
		{"123456789012", false},
		// off-by-one in the check digit
		{"234567890123", false},
		{"", false},
		{"23456789012X", false},
		// all-nines passes the raw checksum; the dummy rule above this
		// layer is what rejects it
		{"999999999999", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, verhoeffValid(tc.number), tc.number)
	}
}
