package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EventKind
		wantErr bool
	}{
		{name: "upper", input: "WAKE", want: Wake},
		{name: "lower", input: "sleep", want: Sleep},
		{name: "mixed", input: "ReTarget", want: Retarget},
		{name: "padded", input: "  bathroom ", want: Bathroom},
		{name: "unknown", input: "nap", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEventKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrInvalidEventKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventKind_WireNumbers(t *testing.T) {
	assert.Equal(t, EventKind(0), Wake)
	assert.Equal(t, EventKind(9), Retarget)
	assert.Equal(t, EventKind(10), Other)
	assert.Len(t, EventKinds(), 11)
	assert.False(t, EventKind(11).Valid())
	assert.Equal(t, "EventKind(11)", EventKind(11).String())
}

func TestEventKind_Related(t *testing.T) {
	assert.True(t, Wake.Related(Sleep))
	assert.True(t, Sleep.Related(Wake))
	assert.True(t, Food.Related(Food))
	assert.False(t, Food.Related(Drink))
	assert.False(t, Wake.Related(Retarget))

	_, ok := Food.Inverse()
	assert.False(t, ok)
}

func TestEventKind_Text(t *testing.T) {
	b, err := Caffeine.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "CAFFEINE", string(b))

	var k EventKind
	require.NoError(t, k.UnmarshalText([]byte("alcohol")))
	assert.Equal(t, Alcohol, k)

	_, err = EventKind(42).MarshalText()
	assert.ErrorIs(t, err, common.ErrInvalidEventKind)
}
