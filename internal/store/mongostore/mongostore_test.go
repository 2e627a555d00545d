package mongostore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront_back_end/internal/store"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(mongo.ErrNoDocuments), store.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mapErr(dup), store.ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, mapErr(other))
}

func TestWithUpdatedAt(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := &Store{nowFunc: func() time.Time { return now }}

	got := s.withUpdatedAt(bson.M{"title": "x"})
	assert.Equal(t, bson.M{"$set": bson.M{"title": "x", "updatedAt": now}}, got)

	got = s.withUpdatedAt(nil)
	assert.Equal(t, bson.M{"$set": bson.M{"updatedAt": now}}, got)
}

func TestClientOptionsBoundOperations(t *testing.T) {
	opts := clientOptions("mongodb://localhost:27017", 7*time.Second)
	require.NoError(t, opts.Validate())

	require.NotNil(t, opts.Timeout)
	assert.Equal(t, 7*time.Second, *opts.Timeout)
	require.NotNil(t, opts.ServerSelectionTimeout)
	assert.Equal(t, 7*time.Second, *opts.ServerSelectionTimeout)
	require.NotNil(t, opts.ConnectTimeout)
	assert.Equal(t, 7*time.Second, *opts.ConnectTimeout)

	assert.Nil(t, clientOptions("mongodb://localhost:27017", 0).Timeout)
}
