package rating

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	mu      sync.Mutex
	ratings map[primitive.ObjectID][]float64
	stored  map[primitive.ObjectID]float64
	failSet map[primitive.ObjectID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ratings: map[primitive.ObjectID][]float64{},
		stored:  map[primitive.ObjectID]float64{},
		failSet: map[primitive.ObjectID]bool{},
	}
}

func (f *fakeStore) ProductRatings(_ context.Context, id primitive.ObjectID) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.ratings[id]...), nil
}

func (f *fakeStore) SetProductRating(_ context.Context, id primitive.ObjectID, r float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet[id] {
		return errors.New("write failed")
	}
	f.stored[id] = r
	return nil
}

func (f *fakeStore) ProductIDs(context.Context) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(f.ratings))
	for id := range f.ratings {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 4.0, Mean([]float64{4}))
	assert.InDelta(t, 3.6667, Mean([]float64{5, 4, 2}), 0.0001)
}

func TestRecompute(t *testing.T) {
	fs := newFakeStore()
	agg := NewAggregator(fs)
	id := primitive.NewObjectID()

	fs.ratings[id] = []float64{5, 3}
	mean, err := agg.Recompute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4.0, mean)
	assert.Equal(t, 4.0, fs.stored[id])

	// dernier avis supprimé
	fs.ratings[id] = nil
	mean, err = agg.Recompute(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, mean)
	assert.Zero(t, fs.stored[id])
}

func TestRecomputeWriteFailure(t *testing.T) {
	fs := newFakeStore()
	id := primitive.NewObjectID()
	fs.ratings[id] = []float64{1}
	fs.failSet[id] = true

	_, err := NewAggregator(fs).Recompute(context.Background(), id)
	assert.Error(t, err)
}

func TestReconcilerRun(t *testing.T) {
	fs := newFakeStore()
	ok1, ok2, bad := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	fs.ratings[ok1] = []float64{5, 4}
	fs.ratings[ok2] = []float64{}
	fs.ratings[bad] = []float64{2}
	fs.failSet[bad] = true
	fs.stored[ok2] = 4.2 // note périmée

	r := NewReconciler(fs, NewAggregator(fs))
	n, err := r.Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 4.5, fs.stored[ok1])
	assert.Zero(t, fs.stored[ok2])
}

func TestReconcilerStartRejectsBadSchedule(t *testing.T) {
	fs := newFakeStore()
	r := NewReconciler(fs, NewAggregator(fs))
	assert.Error(t, r.Start("every now and then"))
	r.Stop()

	assert.NoError(t, r.Start(""))
	r.Stop()
}
