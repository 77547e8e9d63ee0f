package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

func cartBook(id, title string, price float64) model.Book {
	return model.Book{ID: id, Title: title, Price: price, InStock: true}
}

func TestCartAdd(t *testing.T) {
	cart := NewCart(NewMemStorage())

	cart.Add(cartBook("b1", "Dune", 10), 1)
	cart.Add(cartBook("b2", "Foundation", 5), 2)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, 20.0, cart.TotalPrice())
}

func TestCartAddMergesLines(t *testing.T) {
	cart := NewCart(NewMemStorage())

	cart.Add(cartBook("b1", "Dune", 10), 1)
	cart.Add(cartBook("b1", "Dune", 10), 3)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCartAddClampsQuantity(t *testing.T) {
	cart := NewCart(NewMemStorage())

	cart.Add(cartBook("b1", "Dune", 10), 0)
	cart.Add(cartBook("b2", "Foundation", 5), -3)

	for _, item := range cart.Items() {
		assert.Equal(t, 1, item.Quantity)
	}
}

func TestCartRemove(t *testing.T) {
	cart := NewCart(NewMemStorage())

	cart.Add(cartBook("b1", "Dune", 10), 1)
	cart.Add(cartBook("b2", "Foundation", 5), 1)

	cart.Remove("b1")
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b2", items[0].Book.ID)

	// Removing an absent line is a no-op.
	cart.Remove("b1")
	assert.Len(t, cart.Items(), 1)
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := NewCart(NewMemStorage())
	cart.Add(cartBook("b1", "Dune", 10), 1)

	cart.UpdateQuantity("b1", 5)
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, 5, cart.Items()[0].Quantity)
	assert.Equal(t, 50.0, cart.TotalPrice())

	// Zero or negative removes the line.
	cart.UpdateQuantity("b1", 0)
	assert.Empty(t, cart.Items())
}

func TestCartClear(t *testing.T) {
	storage := NewMemStorage()
	cart := NewCart(storage)
	cart.Add(cartBook("b1", "Dune", 10), 2)

	cart.Clear()
	assert.Empty(t, cart.Items())
	assert.Equal(t, 0.0, cart.TotalPrice())

	restored := NewCart(storage)
	assert.Empty(t, restored.Items(), "Clear persists")
}

func TestCartPersistsAcrossInstances(t *testing.T) {
	storage := NewMemStorage()

	cart := NewCart(storage)
	cart.Add(cartBook("b1", "Dune", 10), 2)
	cart.Add(cartBook("b2", "Foundation", 5), 1)

	restored := NewCart(storage)
	items := restored.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Dune", items[0].Book.Title)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 25.0, restored.TotalPrice())
}

func TestCartCorruptSavedState(t *testing.T) {
	storage := NewMemStorage()
	require.NoError(t, storage.Set(cartKey, "{not json"))

	cart := NewCart(storage)
	assert.Empty(t, cart.Items())
}

func TestCartItemsIsACopy(t *testing.T) {
	cart := NewCart(NewMemStorage())
	cart.Add(cartBook("b1", "Dune", 10), 1)

	items := cart.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	storage := NewFileStorage(path)

	_, err := storage.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, storage.Set("token", "abc123"))
	got, err := storage.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	// A second instance over the same file sees the value.
	reopened := NewFileStorage(path)
	got, err = reopened.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	require.NoError(t, storage.Delete("token"))
	_, err = storage.Get("token")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is a no-op.
	assert.NoError(t, storage.Delete("token"))
}

func TestCartPersistsThroughFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	cart := NewCart(NewFileStorage(path))
	cart.Add(cartBook("b1", "Dune", 12.5), 2)

	restored := NewCart(NewFileStorage(path))
	require.Len(t, restored.Items(), 1)
	assert.Equal(t, 25.0, restored.TotalPrice())
}
