package dashboard

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPreferences(r *rand.Rand, n int) []WidgetPreference {
	prefs := make([]WidgetPreference, n)
	for i := range prefs {
		prefs[i] = WidgetPreference{
			WidgetID:  string(rune('a' + i)),
			Order:     r.Intn(7) - 2,
			IsVisible: r.Intn(2) == 0,
			Size:      WidgetSizeMedium,
		}
	}
	return prefs
}

func TestResequenceIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		prefs := randomPreferences(r, r.Intn(10))
		once := Resequence(prefs)
		assert.Equal(t, once, Resequence(once))
	}
}

func TestResequencePutsVisibleBeforeHidden(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		out := Resequence(randomPreferences(r, r.Intn(10)))
		for idx, a := range out {
			assert.Equal(t, idx+1, a.Order, "orders must be contiguous from 1")
			for _, b := range out {
				if a.IsVisible && !b.IsVisible {
					assert.Less(t, a.Order, b.Order)
				}
			}
		}
	}
}

func TestResequenceKeepsRelativeOrderAndTies(t *testing.T) {
	prefs := []WidgetPreference{
		{WidgetID: "x", Order: 5, IsVisible: false},
		{WidgetID: "y", Order: 2, IsVisible: true},
		{WidgetID: "z", Order: 2, IsVisible: true},
		{WidgetID: "w", Order: 1, IsVisible: false},
	}
	out := Resequence(prefs)

	require.Equal(t, []string{"y", "z", "w", "x"}, prefIDs(out))
	assert.Equal(t, 5, prefs[0].Order, "input must not be modified")
}

func TestNormalizeFillsSettings(t *testing.T) {
	out := Normalize([]WidgetPreference{{WidgetID: "a", Order: 3, IsVisible: true}})
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Order)
	assert.NotNil(t, out[0].Settings)
}
