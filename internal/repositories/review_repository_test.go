package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRating(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{4.0, 4.0},
		{4.25, 4.3},
		{4.24, 4.2},
		{4.666666, 4.7},
		{3.349999, 3.3},
		{5.0, 5.0},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.want, RoundRating(tc.in), 1e-9, "RoundRating(%v)", tc.in)
	}
}
