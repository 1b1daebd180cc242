package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		from    OfferStatus
		d       Decision
		want    OfferStatus
		wantErr bool
	}{
		{"pending accept", OfferPending, DecisionAccept, OfferAccepted, false},
		{"pending reject", OfferPending, DecisionReject, OfferRejected, false},
		{"pending counter", OfferPending, DecisionCounter, OfferCountered, false},
		{"pending expire", OfferPending, DecisionExpire, OfferExpired, false},
		{"pending withdraw", OfferPending, DecisionWithdraw, OfferWithdrawn, false},
		{"countered accept", OfferCountered, DecisionAccept, OfferAccepted, false},
		{"countered reject", OfferCountered, DecisionReject, OfferRejected, false},
		{"countered counter", OfferCountered, DecisionCounter, OfferCountered, true},
		{"accepted reject", OfferAccepted, DecisionReject, OfferAccepted, true},
		{"expired accept", OfferExpired, DecisionAccept, OfferExpired, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Transition(tc.from, tc.d)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOfferStatus_Terminal(t *testing.T) {
	t.Parallel()

	for _, s := range []OfferStatus{OfferAccepted, OfferRejected, OfferExpired, OfferWithdrawn} {
		assert.True(t, s.Terminal(), s)
	}
	require.False(t, OfferPending.Terminal())
	require.False(t, OfferCountered.Terminal())
}
