package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowReplacesCurrent(t *testing.T) {
	h := NewHub()

	first := h.Success("shopper", "Phone adicionado ao carrinho")
	second := h.Info("shopper", "Stock máximo atingido")

	got := h.Current("shopper")
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
	assert.NotEqual(t, first.ID, got.ID)
	assert.Equal(t, KindInfo, got.Kind)
}

func TestDismissOnlyCurrent(t *testing.T) {
	h := NewHub()

	old := h.Success("shopper", "one")
	cur := h.Success("shopper", "two")

	assert.False(t, h.Dismiss("shopper", old.ID), "stale id must be ignored")
	require.NotNil(t, h.Current("shopper"))

	assert.True(t, h.Dismiss("shopper", cur.ID))
	assert.Nil(t, h.Current("shopper"))
}

func TestAutoDismissAfterDuration(t *testing.T) {
	h := NewHub()

	h.Show("shopper", KindSuccess, "quick", 30*time.Millisecond)
	require.NotNil(t, h.Current("shopper"))

	time.Sleep(100 * time.Millisecond)
	assert.Nil(t, h.Current("shopper"))
}

func TestSupersededToastCancelsItsTimer(t *testing.T) {
	h := NewHub()

	h.Show("shopper", KindSuccess, "short-lived", 30*time.Millisecond)
	kept := h.Show("shopper", KindInfo, "long-lived", time.Minute)

	// The first toast's timer firing must not clear the replacement.
	time.Sleep(100 * time.Millisecond)
	got := h.Current("shopper")
	require.NotNil(t, got)
	assert.Equal(t, kept.ID, got.ID)
}

func TestSlotsAreIsolatedPerShopper(t *testing.T) {
	h := NewHub()

	h.Success("alice", "for alice")
	assert.Nil(t, h.Current("bob"))
	require.NotNil(t, h.Current("alice"))
}

func TestSubscribeReceivesShowAndDismiss(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe("shopper")
	defer cancel()

	sent := h.Info("shopper", "Produto removido")

	got := <-ch
	require.NotNil(t, got.Toast)
	assert.Equal(t, sent.ID, got.Toast.ID)

	h.Dismiss("shopper", sent.ID)
	got = <-ch
	assert.Nil(t, got.Toast)
}

func TestCancelStopsDelivery(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe("shopper")
	cancel()

	h.Success("shopper", "after cancel")

	select {
	case got := <-ch:
		t.Fatalf("unexpected delivery after cancel: %v", got)
	default:
	}
}
