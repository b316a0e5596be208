package debounce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_RisingAfterStableSamples(t *testing.T) {
	f := New(DefaultStableSamples, false)

	assert.Equal(t, None, f.Update(true))
	assert.Equal(t, None, f.Update(true))
	assert.Equal(t, Rising, f.Update(true))
	assert.True(t, f.Level())

	// Holding the level emits nothing further
	for i := 0; i < 10; i++ {
		assert.Equal(t, None, f.Update(true))
	}
}

func TestFilter_FallingAfterStableSamples(t *testing.T) {
	f := New(DefaultStableSamples, true)

	assert.Equal(t, None, f.Update(false))
	assert.Equal(t, None, f.Update(false))
	assert.Equal(t, Falling, f.Update(false))
	assert.False(t, f.Level())
}

func TestFilter_BounceNeverEmits(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		initial bool
		samples []bool
	}{
		{"alternating", 3, false, []bool{true, false, true, false, true, false, true, false}},
		{"two highs then low", 3, false, []bool{true, true, false, true, true, false}},
		{"two lows from high", 3, true, []bool{false, false, true, false, false, true}},
		{"short of five", 5, false, []bool{true, true, true, true, false, true, true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.n, tt.initial)
			for i, s := range tt.samples {
				assert.Equal(t, None, f.Update(s), "sample %d", i)
			}
			assert.Equal(t, tt.initial, f.Level())
		})
	}
}

func TestFilter_ExactlyOneEdgePerTransition(t *testing.T) {
	for n := 1; n <= 8; n++ {
		f := New(n, false)

		var rising, falling int
		feed := func(level bool, count int) {
			for i := 0; i < count; i++ {
				switch f.Update(level) {
				case Rising:
					rising++
				case Falling:
					falling++
				}
			}
		}

		feed(true, n)
		assert.Equal(t, 1, rising, "n=%d", n)
		feed(true, 3)
		feed(false, n)
		assert.Equal(t, 1, falling, "n=%d", n)
		feed(false, 3)
		assert.Equal(t, 1, rising, "n=%d", n)
	}
}

func TestFilter_SameLevelNoEdge(t *testing.T) {
	f := New(3, false)
	for i := 0; i < 10; i++ {
		assert.Equal(t, None, f.Update(false))
	}
	assert.False(t, f.Level())
}

func TestNew_ClampsDepth(t *testing.T) {
	f := New(0, false)
	assert.Equal(t, Rising, f.Update(true))

	f = New(100, false)
	assert.Equal(t, uint32(0xFFFFFFFF), f.mask)
}

func TestEdge_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "rising", Rising.String())
	assert.Equal(t, "falling", Falling.String())
}
