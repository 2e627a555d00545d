package memstore

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

func (s *Store) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := e.doc
	return &u, nil
}

func (s *Store) GetUserByUID(_ context.Context, uid string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.users {
		if e.doc.UID == uid {
			u := e.doc
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateUser: uid et email sont uniques
func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.doc.UID == u.UID || (u.Email != "" && strings.EqualFold(e.doc.Email, u.Email)) {
			return store.ErrDuplicate
		}
	}
	ensureID(&u.ID)
	stamp(&u.CreatedAt, &u.UpdatedAt, s.now())
	s.users[u.ID] = &entry[models.User]{seq: s.next(), doc: *u}
	return nil
}

func (s *Store) UpdateUser(_ context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	upd.Apply(&e.doc)
	e.doc.UpdatedAt = s.now()
	u := e.doc
	return &u, nil
}
