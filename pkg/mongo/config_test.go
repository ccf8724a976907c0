package mongo_test

import (
	"context"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstate/pkg/mongo"
)

func TestDefaultConfigMatchesEnvDefaults(t *testing.T) {
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")

	var parsed mongo.Config
	require.NoError(t, env.Parse(&parsed))

	want := mongo.DefaultConfig()
	want.ConnectionURL = "mongodb://localhost:27017"
	assert.Equal(t, want, parsed)
}

func TestNew_EmptyURL(t *testing.T) {
	_, err := mongo.New(context.Background(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}
