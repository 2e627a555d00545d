// Package memstore garde tous les documents en mémoire. Utilisé par les tests
// et par DB_DRIVER=memory en développement local.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

type entry[T any] struct {
	seq int64
	doc T
}

type Store struct {
	mu  sync.RWMutex
	seq int64

	products map[primitive.ObjectID]*entry[models.Product]
	reviews  map[primitive.ObjectID]*entry[models.Review]
	orders   map[primitive.ObjectID]*entry[models.Order]
	users    map[primitive.ObjectID]*entry[models.User]
	contacts map[primitive.ObjectID]*entry[models.Contact]

	nowFunc func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		products: map[primitive.ObjectID]*entry[models.Product]{},
		reviews:  map[primitive.ObjectID]*entry[models.Review]{},
		orders:   map[primitive.ObjectID]*entry[models.Order]{},
		users:    map[primitive.ObjectID]*entry[models.User]{},
		contacts: map[primitive.ObjectID]*entry[models.Contact]{},
		nowFunc:  time.Now,
	}
}

// WithClock remplace l'horloge (tests)
func (s *Store) WithClock(now func() time.Time) *Store {
	s.nowFunc = now
	return s
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) now() time.Time { return s.nowFunc().UTC() }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// sortedEntries trie par seq décroissante (du plus récent au plus ancien)
func sortedEntries[T any](m map[primitive.ObjectID]*entry[T], keep func(T) bool) []*entry[T] {
	out := make([]*entry[T], 0, len(m))
	for _, e := range m {
		if keep == nil || keep(e.doc) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq > out[j].seq })
	return out
}

func paginate[T any](items []T, p store.Page) []T {
	skip := p.Skip()
	if skip < 0 || skip >= int64(len(items)) {
		return []T{}
	}
	end := skip + p.Limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
