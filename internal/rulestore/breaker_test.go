package rulestore

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "recommender-workers/internal/common/errors"
	"recommender-workers/internal/common/logger"
)

func TestBreakerStore_TripsAfterConsecutiveFailures(t *testing.T) {
	inner := new(mockRuleStore)
	inner.On("FetchActiveRules", mock.Anything).Return(nil, errors.New("db down"))

	store := NewBreakerStore(inner, BreakerSettings{
		Name:                "rules-test-trip",
		MaxRequests:         1,
		Timeout:             time.Hour,
		ConsecutiveFailures: 3,
	}, logger.NewTestLogger(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.FetchActiveRules(ctx)
		require.EqualError(t, err, "db down")
	}
	assert.Equal(t, gobreaker.StateOpen, store.State())

	_, err := store.FetchActiveRules(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRuleStoreUnavailable))
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))

	inner.AssertNumberOfCalls(t, "FetchActiveRules", 3)
}

func TestBreakerStore_RecoversAfterTimeout(t *testing.T) {
	inner := new(mockRuleStore)
	inner.On("FetchActiveRules", mock.Anything).Return(nil, errors.New("db down")).Once()
	inner.On("FetchActiveRules", mock.Anything).Return(sampleRules(), nil)

	store := NewBreakerStore(inner, BreakerSettings{
		Name:                "rules-test-recover",
		MaxRequests:         1,
		Timeout:             20 * time.Millisecond,
		ConsecutiveFailures: 1,
	}, logger.NewNoOpLogger())
	ctx := context.Background()

	_, err := store.FetchActiveRules(ctx)
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, store.State())

	time.Sleep(40 * time.Millisecond)

	rules, err := store.FetchActiveRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestBreakerStore_PassesThroughSuccess(t *testing.T) {
	inner := new(mockRuleStore)
	inner.On("FetchActiveRules", mock.Anything).Return(sampleRules(), nil)

	store := NewBreakerStore(inner, BreakerSettings{}, logger.NewNoOpLogger())
	rules, err := store.FetchActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleRules(), rules)
	assert.Equal(t, gobreaker.StateClosed, store.State())
}
