package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

func (s *Store) CreateContact(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&c.ID)
	stamp(&c.CreatedAt, &c.UpdatedAt, s.now())
	s.contacts[c.ID] = &entry[models.Contact]{seq: s.next(), doc: *c}
	return nil
}

func (s *Store) ListContacts(_ context.Context, status models.ContactStatus) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Contact{}
	for _, e := range sortedEntries(s.contacts, func(c models.Contact) bool { return status == "" || c.Status == status }) {
		out = append(out, e.doc)
	}
	return out, nil
}

func (s *Store) GetContact(_ context.Context, id primitive.ObjectID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.contacts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := e.doc
	return &c, nil
}

func (s *Store) SetContactStatus(_ context.Context, id primitive.ObjectID, status models.ContactStatus) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.contacts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	e.doc.Status = status
	e.doc.UpdatedAt = s.now()
	c := e.doc
	return &c, nil
}
