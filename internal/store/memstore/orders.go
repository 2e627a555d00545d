package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

func (s *Store) CreateOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.orders {
		if e.doc.OrderID == o.OrderID {
			return store.ErrDuplicate
		}
	}
	ensureID(&o.ID)
	stamp(&o.CreatedAt, &o.UpdatedAt, s.now())
	s.orders[o.ID] = &entry[models.Order]{seq: s.next(), doc: *o}
	return nil
}

func (s *Store) ListOrders(_ context.Context, f store.OrderFilter) ([]models.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keep := func(o models.Order) bool {
		if f.UserID != nil && o.UserID != *f.UserID {
			return false
		}
		return f.Status == "" || o.Status == f.Status
	}
	entries := sortedEntries(s.orders, keep)
	out := make([]models.Order, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.doc)
	}
	if f.Limit <= 0 {
		return out, int64(len(out)), nil
	}
	return paginate(out, f.Page), int64(len(out)), nil
}

func (s *Store) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o := e.doc
	return &o, nil
}

func (s *Store) GetOrderByNumber(_ context.Context, orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.orders {
		if e.doc.OrderID == orderID {
			o := e.doc
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateOrder n'accepte que les commandes encore en attente
func (s *Store) UpdateOrder(_ context.Context, id primitive.ObjectID, u models.OrderUpdate) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if e.doc.Status != models.OrderPending {
		return nil, store.ErrStatusMismatch
	}
	u.Apply(&e.doc)
	e.doc.UpdatedAt = s.now()
	o := e.doc
	return &o, nil
}

func (s *Store) SetOrderStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if e.doc.Status != from {
		return nil, store.ErrStatusMismatch
	}
	e.doc.Status = to
	e.doc.UpdatedAt = s.now()
	o := e.doc
	return &o, nil
}
