package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_LatestValueWins(t *testing.T) {
	h := NewHub[int]()
	_, ch := h.Subscribe()

	h.Publish(1)
	h.Publish(2)
	h.Publish(3)

	assert.Equal(t, 3, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestHub_FanOut(t *testing.T) {
	h := NewHub[string]()
	_, a := h.Subscribe()
	_, b := h.Subscribe()
	require.Equal(t, 2, h.Len())

	h.Publish("x")
	assert.Equal(t, "x", <-a)
	assert.Equal(t, "x", <-b)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub[int]()
	id, ch := h.Subscribe()

	h.Unsubscribe(id)
	h.Unsubscribe(id)
	h.Publish(1)

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, h.Len())
}
