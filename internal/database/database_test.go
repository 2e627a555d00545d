package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/store/memstore"
)

func TestConnectMemoryWithoutIntegrations(t *testing.T) {
	cfg := &config.Config{Mongo: config.MongoConfig{Driver: config.DriverMemory}}

	conns, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, conns.Store)
	assert.Nil(t, conns.Redis)
	assert.Nil(t, conns.Elastic)
	assert.Nil(t, conns.MinIO)

	assert.NoError(t, conns.Close(context.Background()))
}

func TestConnectMinIOClientOnly(t *testing.T) {
	client, err := connectMinIO(config.MinioConfig{Endpoint: "minio.local:9000", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "minio.local:9000", client.EndpointURL().Host)
}
