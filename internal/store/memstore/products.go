package memstore

import (
	"cmp"
	"context"
	"slices"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// cloneProduct détache Images du document stocké
func cloneProduct(p models.Product) models.Product {
	p.Images = slices.Clone(p.Images)
	return p
}

func matchProduct(q store.ProductQuery, p models.Product) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Featured && !p.Featured {
		return false
	}
	if q.Search != "" && !containsFold(p.Title, q.Search) &&
		!containsFold(p.Description, q.Search) && !containsFold(p.Brand, q.Search) {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}

// compareProduct compare selon le champ de tri; 0 = égalité
func compareProduct(field string, a, b models.Product) int {
	switch field {
	case "price":
		return cmp.Compare(a.Price, b.Price)
	case "rating":
		return cmp.Compare(a.Rating, b.Rating)
	case "discountPercentage":
		return cmp.Compare(a.DiscountPercentage, b.DiscountPercentage)
	case "stock":
		return cmp.Compare(a.Stock, b.Stock)
	case "title":
		return cmp.Compare(a.Title, b.Title)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (s *Store) ListProducts(_ context.Context, q store.ProductQuery) ([]models.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*entry[models.Product], 0)
	for _, e := range s.products {
		if matchProduct(q, e.doc) {
			matched = append(matched, e)
		}
	}

	field, dir := q.SortField()
	sort.Slice(matched, func(i, j int) bool {
		c := compareProduct(field, matched[i].doc, matched[j].doc)
		if c == 0 {
			c = cmp.Compare(matched[i].seq, matched[j].seq)
		}
		return c*dir < 0
	})

	out := make([]models.Product, 0, len(matched))
	for _, e := range matched {
		out = append(out, cloneProduct(e.doc))
	}
	return paginate(out, q.Page), int64(len(matched)), nil
}

func (s *Store) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p := cloneProduct(e.doc)
	return &p, nil
}

func (s *Store) GetProducts(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.products[id]; ok {
			out = append(out, cloneProduct(e.doc))
		}
	}
	return out, nil
}

func (s *Store) Categories(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, e := range s.products {
		if c := e.doc.Category; c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) CountProducts(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *Store) InsertProducts(_ context.Context, products []models.Product) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		ensureID(&p.ID)
		stamp(&p.CreatedAt, &p.UpdatedAt, now)
		s.products[p.ID] = &entry[models.Product]{seq: s.next(), doc: cloneProduct(p)}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&p.ID)
	if _, exists := s.products[p.ID]; exists {
		return store.ErrDuplicate
	}
	stamp(&p.CreatedAt, &p.UpdatedAt, s.now())
	s.products[p.ID] = &entry[models.Product]{seq: s.next(), doc: cloneProduct(*p)}
	return nil
}

func (s *Store) updateProduct(id primitive.ObjectID, fn func(*models.Product)) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	fn(&e.doc)
	e.doc = cloneProduct(e.doc)
	e.doc.UpdatedAt = s.now()
	p := cloneProduct(e.doc)
	return &p, nil
}

func (s *Store) UpdateProduct(_ context.Context, id primitive.ObjectID, u models.ProductUpdate) (*models.Product, error) {
	return s.updateProduct(id, u.Apply)
}

func (s *Store) AddProductImage(_ context.Context, id primitive.ObjectID, url string) (*models.Product, error) {
	return s.updateProduct(id, func(p *models.Product) {
		images := make([]string, 0, len(p.Images)+1)
		p.Images = append(append(images, p.Images...), url)
	})
}

func (s *Store) SetProductRating(_ context.Context, id primitive.ObjectID, rating float64) error {
	_, err := s.updateProduct(id, func(p *models.Product) { p.Rating = rating })
	return err
}

func (s *Store) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) DeleteAllProducts(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.products))
	s.products = map[primitive.ObjectID]*entry[models.Product]{}
	return n, nil
}

func (s *Store) ProductIDs(context.Context) ([]primitive.ObjectID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]primitive.ObjectID, 0, len(s.products))
	for _, e := range sortedEntries(s.products, nil) {
		out = append(out, e.doc.ID)
	}
	return out, nil
}
