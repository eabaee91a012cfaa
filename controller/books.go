package controller

import (
	"context"
	"sort"
	"strings"

	"github.com/eringen/pubadmin/apiclient"
	"github.com/eringen/pubadmin/model"
)

// Direction is the way Move shifts a book.
type Direction int

const (
	Up Direction = iota
	Down
)

// BookController adds the book-specific operations to the generic
// controller.
type BookController struct {
	*Controller[model.RecommendedBook, string]
	api *apiclient.Client
}

// NewBooks returns a BookController backed by api.
func NewBooks(api *apiclient.Client) *BookController {
	return &BookController{
		Controller: New[model.RecommendedBook, string](Books{API: api}),
		api:        api,
	}
}

// Toggle asks the API to flip the active flag of the book with the given id
// and applies the value the API reports, which may differ from the request.
func (b *BookController) Toggle(ctx context.Context, id string) error {
	book, ok := b.Find(id)
	if !ok {
		b.Fail(ErrNotFound)
		return ErrNotFound
	}
	active, err := b.api.ToggleBookActive(ctx, id, !book.IsActive)
	if err != nil {
		b.Fail(err)
		return err
	}
	b.Patch(id, func(r *model.RecommendedBook) { r.IsActive = active })
	return nil
}

// Move swaps the order of the book with its neighbour in the given direction
// and re-sorts the list. The new order is not sent to the API.
func (b *BookController) Move(id string, dir Direction) bool {
	b.sortByOrder()
	items := b.items
	i := -1
	for k := range items {
		if items[k].ID == id {
			i = k
			break
		}
	}
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if i < 0 || j < 0 || j >= len(items) {
		return false
	}
	items[i].Order, items[j].Order = items[j].Order, items[i].Order
	if items[i].Order == items[j].Order {
		items[i], items[j] = items[j], items[i]
	}
	b.sortByOrder()
	return true
}

// Arrange restores an unsaved order carried over from an earlier Move: the
// listed books are put in the order of ids and renumbered with the existing
// order values. Books not named in ids follow in their current order.
func (b *BookController) Arrange(ids []string) {
	if len(ids) == 0 {
		return
	}
	b.sortByOrder()
	orders := make([]int, len(b.items))
	for i, book := range b.items {
		orders[i] = book.Order
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := pos[id]; !dup {
			pos[id] = i
		}
	}
	sort.SliceStable(b.items, func(i, j int) bool {
		pi, iok := pos[b.items[i].ID]
		pj, jok := pos[b.items[j].ID]
		if iok && jok {
			return pi < pj
		}
		return iok && !jok
	})
	for i := range b.items {
		b.items[i].Order = orders[i]
	}
}

func (b *BookController) sortByOrder() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return b.items[i].Order < b.items[j].Order
	})
}

// Filter returns the listed books whose title, author or a tag contains term,
// ignoring case. An empty term matches everything.
func (b *BookController) Filter(term string) []model.RecommendedBook {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return b.items
	}
	var out []model.RecommendedBook
	for _, book := range b.items {
		if matchBook(book, term) {
			out = append(out, book)
		}
	}
	return out
}

func matchBook(book model.RecommendedBook, term string) bool {
	if strings.Contains(strings.ToLower(book.Title), term) ||
		strings.Contains(strings.ToLower(book.Author), term) {
		return true
	}
	for _, t := range book.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}
