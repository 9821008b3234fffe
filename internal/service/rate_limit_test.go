package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"social_network/pkg/logger"
)

func TestRateLimitAllowsUpToLimit(t *testing.T) {
	svc := NewRateLimitService(&fakeRateRepo{}, 2, time.Minute, logger.NewNop())
	ctx := context.Background()

	ok, remaining, err := svc.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining, err = svc.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, remaining)

	ok, remaining, err = svc.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, remaining)

	ok, _, err = svc.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimitDisabled(t *testing.T) {
	repo := &fakeRateRepo{}
	svc := NewRateLimitService(repo, 0, time.Minute, logger.NewNop())

	ok, _, err := svc.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.counts)
}

func TestRateLimitRepositoryError(t *testing.T) {
	svc := NewRateLimitService(&fakeRateRepo{err: errors.New("redis down")}, 5, time.Minute, logger.NewNop())

	ok, _, err := svc.Allow(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}
