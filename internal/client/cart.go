package client

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

const cartKey = "cart"

// CartItem is one cart line: a book and how many copies of it.
type CartItem struct {
	Book     model.Book `json:"book"`
	Quantity int        `json:"quantity"`
}

// Cart is the purely client-side shopping cart. It never talks to the
// backend; its contents live in the same local storage as the token.
type Cart struct {
	mu      sync.Mutex
	storage Storage
	items   []CartItem
}

// NewCart creates a Cart, restoring any previously saved contents. A corrupt
// saved cart is discarded rather than failing construction.
func NewCart(storage Storage) *Cart {
	c := &Cart{storage: storage}

	saved, err := storage.Get(cartKey)
	if err == nil {
		var items []CartItem
		if json.Unmarshal([]byte(saved), &items) == nil {
			c.items = items
		}
	} else if !errors.Is(err, ErrKeyNotFound) {
		// Unreadable storage; start empty.
	}

	return c
}

// Add puts quantity copies of book into the cart, merging with an existing
// line for the same book.
func (c *Cart) Add(book model.Book, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Book.ID == book.ID {
			c.items[i].Quantity += quantity
			c.persist()
			return
		}
	}
	c.items = append(c.items, CartItem{Book: book, Quantity: quantity})
	c.persist()
}

// Remove drops the line for bookID, if present.
func (c *Cart) Remove(bookID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(bookID)
	c.persist()
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func (c *Cart) UpdateQuantity(bookID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(bookID)
		c.persist()
		return
	}

	for i := range c.items {
		if c.items[i].Book.ID == bookID {
			c.items[i].Quantity = quantity
			break
		}
	}
	c.persist()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist()
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// TotalPrice returns the sum of price times quantity across all lines.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Book.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) removeLocked(bookID string) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.Book.ID != bookID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

func (c *Cart) persist() {
	data, err := json.Marshal(c.items)
	if err != nil {
		return
	}
	_ = c.storage.Set(cartKey, string(data))
}
