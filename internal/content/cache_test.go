package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quizhub/internal/quiz"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) List(ctx context.Context) ([]Entry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]Entry)
	return entries, args.Error(1)
}

func (m *mockSource) Load(ctx context.Context, id string) (*quiz.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*quiz.Document)
	return doc, args.Error(1)
}

type memoryListCache struct {
	entries []Entry
	sets    int
}

func (c *memoryListCache) Get(ctx context.Context) ([]Entry, error) {
	return c.entries, nil
}

func (c *memoryListCache) Set(ctx context.Context, entries []Entry) error {
	c.entries = entries
	c.sets++
	return nil
}

type failingListCache struct{}

func (failingListCache) Get(ctx context.Context) ([]Entry, error) {
	return nil, errors.New("redis down")
}

func (failingListCache) Set(ctx context.Context, entries []Entry) error {
	return errors.New("redis down")
}

func TestCachedSourceListFillsAndServesCache(t *testing.T) {
	src := new(mockSource)
	src.Test(t)
	src.On("List", mock.Anything).Return([]Entry{{ID: "go_basics", Title: "Go Basics"}}, nil).Once()
	cache := &memoryListCache{}
	cached := NewCachedSource(src, cache)

	entries, err := cached.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, cache.sets)

	// The Once above makes a second source hit fail the test.
	entries, err = cached.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	src.AssertExpectations(t)
}

func TestCachedSourceListSurvivesCacheOutage(t *testing.T) {
	src := new(mockSource)
	src.Test(t)
	src.On("List", mock.Anything).Return([]Entry{{ID: "go_basics", Title: "Go Basics"}}, nil).Twice()
	cached := NewCachedSource(src, failingListCache{})

	for i := 0; i < 2; i++ {
		entries, err := cached.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	}
	src.AssertExpectations(t)
}

func TestCachedSourceListPropagatesSourceError(t *testing.T) {
	src := new(mockSource)
	src.Test(t)
	src.On("List", mock.Anything).Return(nil, assert.AnError).Once()
	cache := &memoryListCache{}
	cached := NewCachedSource(src, cache)

	_, err := cached.List(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, cache.sets, "failed listings must not be cached")
}

func TestCachedSourceLoadBypassesCache(t *testing.T) {
	src := new(mockSource)
	src.Test(t)
	doc := &quiz.Document{Meta: quiz.Meta{Title: "Go Basics"}}
	src.On("Load", mock.Anything, "go_basics").Return(doc, nil).Times(3)
	cached := NewCachedSource(src, &memoryListCache{})

	for i := 0; i < 3; i++ {
		got, err := cached.Load(context.Background(), "go_basics")
		require.NoError(t, err)
		assert.Equal(t, "Go Basics", got.Meta.Title)
	}
	src.AssertExpectations(t)
}
