package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/store/memstore"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeVerifier map[string]*auth.Token

func (f fakeVerifier) VerifyIDToken(_ context.Context, raw string) (*auth.Token, error) {
	if tok, ok := f[raw]; ok {
		return tok, nil
	}
	return nil, auth.ErrInvalidToken
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []primitive.ObjectID
	deleted []primitive.ObjectID
	cleared int
	hits    []primitive.ObjectID
	err     error
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndexer) IndexProducts(_ context.Context, ps []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range ps {
		f.indexed = append(f.indexed, p.ID)
	}
	return nil
}

func (f *fakeIndexer) DeleteProduct(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndexer) DeleteAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

func (f *fakeIndexer) SearchProducts(context.Context, string, int) ([]primitive.ObjectID, error) {
	return f.hits, f.err
}

type fakeImages struct {
	uploads []string
}

func (f *fakeImages) Upload(_ context.Context, productID primitive.ObjectID, filename, _ string, r io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	url := "http://cdn.test/products/" + productID.Hex() + "/" + filename
	f.uploads = append(f.uploads, url)
	return url, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	contacts []models.Contact
	placed   []models.Order
	changed  []models.Order
}

func (f *fakeNotifier) ContactReceived(_ context.Context, c models.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, c)
	return nil
}

func (f *fakeNotifier) OrderPlaced(_ context.Context, o models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, o)
	return nil
}

func (f *fakeNotifier) OrderStatusChanged(_ context.Context, o models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, o)
	return nil
}

type fakeSeed struct {
	products []models.Product
	err      error
}

func (f fakeSeed) FetchProducts(context.Context, int) ([]models.Product, error) {
	return f.products, f.err
}

var errUpstream = errors.New("upstream down")

// testEnv sert les handlers à travers le routeur de production
type testEnv struct {
	t        *testing.T
	store    *memstore.Store
	index    *fakeIndexer
	images   *fakeImages
	notifier *fakeNotifier
	router   *gin.Engine

	alice, bob, admin *models.User
}

type envOption func(*handlers.Deps)

func withSeed(s fakeSeed) envOption { return func(d *handlers.Deps) { d.Seed = s } }
func withoutImages() envOption      { return func(d *handlers.Deps) { d.Images = nil } }

func newEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	env := &testEnv{
		t:        t,
		store:    memstore.New(),
		index:    &fakeIndexer{},
		images:   &fakeImages{},
		notifier: &fakeNotifier{},
	}
	ctx := context.Background()
	env.alice = env.user(ctx, "uid-alice", "alice@example.com", models.RoleUser)
	env.bob = env.user(ctx, "uid-bob", "bob@example.com", models.RoleUser)
	env.admin = env.user(ctx, "uid-admin", "admin@example.com", models.RoleAdmin)

	d := handlers.Deps{
		Store:      env.store,
		Search:     env.index,
		Images:     env.images,
		Notifier:   env.notifier,
		Seed:       fakeSeed{},
		Background: func(task func()) { task() },
	}
	for _, opt := range opts {
		opt(&d)
	}
	h := handlers.New(d)

	res := middleware.NewResolver(fakeVerifier{
		"alice": {UID: "uid-alice", Email: "alice@example.com"},
		"bob":   {UID: "uid-bob", Email: "bob@example.com"},
		"admin": {UID: "uid-admin", Email: "admin@example.com"},
		"newbie": {
			UID: "uid-newbie", Email: "Newbie@Example.com", Name: "New Bie", Picture: "http://img.test/n.png",
		},
		"anon":  {UID: "uid-anon", Email: "anon.person@example.com"},
		"thief": {UID: "uid-thief", Email: "ALICE@example.com"},
	}, env.store)

	// table de routes de production, sans Redis
	r := routes.NewRouter(routes.Deps{
		Handlers:   h,
		Auth:       res,
		ClientURLs: []string{"http://localhost:5173"},
	})

	env.router = r
	return env
}

func (e *testEnv) user(ctx context.Context, uid, email string, role models.Role) *models.User {
	u := &models.User{UID: uid, Email: email, DisplayName: uid, Role: role}
	require.NoError(e.t, e.store.CreateUser(ctx, u))
	return u
}

func (e *testEnv) product(title string, price float64, mutate ...func(*models.Product)) models.Product {
	e.t.Helper()
	p := models.Product{
		Title:     title,
		Price:     price,
		Stock:     10,
		Category:  "misc",
		Thumbnail: "http://img.test/" + title + ".png",
		Source:    models.SourceAdmin,
	}
	for _, m := range mutate {
		m(&p)
	}
	require.NoError(e.t, e.store.CreateProduct(context.Background(), &p))
	return p
}

func (e *testEnv) rating(id primitive.ObjectID) float64 {
	e.t.Helper()
	p, err := e.store.GetProduct(context.Background(), id)
	require.NoError(e.t, err)
	return p.Rating
}

type response struct {
	Code int
	Body map[string]any
	Raw  []byte
}

// decode relit le corps dans out (structs typés pour les listes)
func (r response) decode(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Raw, out))
}

func (e *testEnv) do(method, path, token string, body any) response {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, token)
}

func (e *testEnv) send(req *http.Request, token string) response {
	e.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	out := response{Code: w.Code, Raw: w.Body.Bytes()}
	_ = json.Unmarshal(out.Raw, &out.Body)
	return out
}
