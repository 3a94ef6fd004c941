package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func items(ids ...string) []domain.Item {
	out := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Item{ID: domain.ItemID(id), Fields: map[string]any{"title": "post " + id}})
	}
	return out
}

func ids(snapshot domain.FeedSnapshot) []string {
	out := make([]string, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		out = append(out, string(item.ID))
	}
	return out
}

func queryWithCursor(cursor string) interface{} {
	return mock.MatchedBy(func(q domain.FeedQuery) bool { return q.Cursor == cursor })
}

func TestFeedControllerAppendsPagesUntilExhausted(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)

	source.EXPECT().FetchPage(mockAnyContext(), domain.FeedQuery{Resource: "posts", PageSize: 2}).
		Return(domain.FeedPage{Items: items("1", "2"), NextCursor: "2"}, nil).Once()
	source.EXPECT().FetchPage(mockAnyContext(), queryWithCursor("2")).
		Return(domain.FeedPage{Items: items("3"), Exhausted: true}, nil).Once()

	loaded, err := controller.LoadNext(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)
	loaded, err = controller.LoadNext(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = controller.LoadNext(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)

	snapshot := controller.Snapshot()
	assert.Equal(t, []string{"1", "2", "3"}, ids(snapshot))
	assert.True(t, snapshot.Exhausted)
	assert.False(t, snapshot.Loading)
}

func TestFeedControllerMergesDuplicatesAcrossPages(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)

	updated := domain.Item{ID: "2", Fields: map[string]any{"title": "edited"}, LikeCount: 9}
	source.EXPECT().FetchPage(mockAnyContext(), queryWithCursor("")).
		Return(domain.FeedPage{Items: items("1", "2"), NextCursor: "2"}, nil).Once()
	source.EXPECT().FetchPage(mockAnyContext(), queryWithCursor("2")).
		Return(domain.FeedPage{Items: []domain.Item{updated, items("3")[0]}}, nil).Once()

	_, err := controller.LoadNext(context.Background())
	require.NoError(t, err)
	_, err = controller.LoadNext(context.Background())
	require.NoError(t, err)

	snapshot := controller.Snapshot()
	assert.Equal(t, []string{"1", "2", "3"}, ids(snapshot))
	assert.Equal(t, "edited", snapshot.Items[1].StringField("title"))
	assert.Equal(t, int64(9), snapshot.Items[1].LikeCount)
}

func TestFeedControllerIgnoresLoadWhileLoading(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)

	started := make(chan struct{})
	release := make(chan struct{})
	source.EXPECT().FetchPage(mockAnyContext(), mock.Anything).
		RunAndReturn(func(context.Context, domain.FeedQuery) (domain.FeedPage, error) {
			close(started)
			<-release
			return domain.FeedPage{Items: items("1"), NextCursor: "2"}, nil
		}).Once()

	done := make(chan bool, 1)
	go func() {
		loaded, _ := controller.LoadNext(context.Background())
		done <- loaded
	}()
	<-started

	assert.True(t, controller.Snapshot().Loading)
	loaded, err := controller.LoadNext(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, []string{"1"}, ids(controller.Snapshot()))
}

func TestFeedControllerDiscardsPageStartedBeforeReset(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)

	started := make(chan struct{})
	release := make(chan struct{})
	source.EXPECT().FetchPage(mockAnyContext(), mock.MatchedBy(func(q domain.FeedQuery) bool { return q.Filter.Category == "" })).
		RunAndReturn(func(context.Context, domain.FeedQuery) (domain.FeedPage, error) {
			close(started)
			<-release
			return domain.FeedPage{Items: items("old-1", "old-2"), NextCursor: "2"}, nil
		}).Once()
	source.EXPECT().FetchPage(mockAnyContext(), mock.MatchedBy(func(q domain.FeedQuery) bool { return q.Filter.Category == "news" })).
		Return(domain.FeedPage{Items: items("news-1")}, nil).Once()

	done := make(chan bool, 1)
	go func() {
		loaded, _ := controller.LoadNext(context.Background())
		done <- loaded
	}()
	<-started

	controller.Reset(domain.FeedFilter{Category: "news"})
	loaded, err := controller.LoadNext(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)

	close(release)
	assert.False(t, <-done)

	snapshot := controller.Snapshot()
	assert.Equal(t, []string{"news-1"}, ids(snapshot))
	assert.Equal(t, "news", snapshot.Filter.Category)
	assert.True(t, snapshot.Exhausted)
}

func TestFeedControllerErrorKeepsItemsAndAllowsRetry(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)

	source.EXPECT().FetchPage(mockAnyContext(), queryWithCursor("")).
		Return(domain.FeedPage{Items: items("1"), NextCursor: "2"}, nil).Once()
	source.EXPECT().FetchPage(mockAnyContext(), queryWithCursor("2")).
		Return(domain.FeedPage{}, domain.NewTransientError(errors.New("timeout"))).Once()
	source.EXPECT().FetchPage(mockAnyContext(), queryWithCursor("2")).
		Return(domain.FeedPage{Items: items("2")}, nil).Once()

	_, err := controller.LoadNext(context.Background())
	require.NoError(t, err)

	loaded, err := controller.LoadNext(context.Background())
	require.ErrorIs(t, err, domain.ErrTransientNetworkFailure)
	assert.False(t, loaded)
	assert.Equal(t, []string{"1"}, ids(controller.Snapshot()))
	assert.False(t, controller.Snapshot().Loading)

	loaded, err = controller.LoadNext(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, []string{"1", "2"}, ids(controller.Snapshot()))
}

func TestFeedControllerPrependDeduplicates(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)
	source.EXPECT().FetchPage(mockAnyContext(), mock.Anything).
		Return(domain.FeedPage{Items: items("1", "2"), NextCursor: "2"}, nil).Once()
	_, err := controller.LoadNext(context.Background())
	require.NoError(t, err)

	controller.Prepend(domain.Item{ID: "9", Fields: map[string]any{"title": "new"}})
	controller.Prepend(domain.Item{ID: "2", Fields: map[string]any{"title": "changed"}})

	snapshot := controller.Snapshot()
	assert.Equal(t, []string{"9", "1", "2"}, ids(snapshot))
	assert.Equal(t, "changed", snapshot.Items[2].StringField("title"))

	item, ok := controller.Item("1")
	require.True(t, ok)
	assert.Equal(t, "post 1", item.StringField("title"))
}

func TestFeedControllerMergeKeepsPendingLikeState(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)
	source.EXPECT().FetchPage(mockAnyContext(), queryWithCursor("")).
		Return(domain.FeedPage{Items: items("1"), NextCursor: "2"}, nil).Once()
	source.EXPECT().FetchPage(mockAnyContext(), queryWithCursor("2")).
		Return(domain.FeedPage{Items: []domain.Item{{ID: "1", LikeCount: 0}}}, nil).Once()

	_, err := controller.LoadNext(context.Background())
	require.NoError(t, err)

	item, _ := controller.Item("1")
	require.True(t, controller.ReplaceItem(domain.ToggleLike(item)))

	_, err = controller.LoadNext(context.Background())
	require.NoError(t, err)

	item, _ = controller.Item("1")
	assert.True(t, item.Liked)
	assert.Equal(t, int64(1), item.LikeCount)
	assert.Equal(t, domain.ReconcilePending, item.Reconciliation)
}

func TestFeedControllerCloseIgnoresLateResults(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)

	started := make(chan struct{})
	release := make(chan struct{})
	source.EXPECT().FetchPage(mockAnyContext(), mock.Anything).
		RunAndReturn(func(context.Context, domain.FeedQuery) (domain.FeedPage, error) {
			close(started)
			<-release
			return domain.FeedPage{Items: items("1")}, nil
		}).Once()

	var notified int
	var mu sync.Mutex
	controller.Subscribe(func(domain.FeedSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		notified++
	})

	done := make(chan bool, 1)
	go func() {
		loaded, _ := controller.LoadNext(context.Background())
		done <- loaded
	}()
	<-started
	controller.Close()

	mu.Lock()
	before := notified
	mu.Unlock()

	close(release)
	assert.False(t, <-done)
	assert.Empty(t, controller.Snapshot().Items)
	assert.False(t, controller.ReplaceItem(domain.Item{ID: "1"}))

	loaded, err := controller.LoadNext(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, before, notified)
}

func TestFeedControllerRefreshReloadsFirstPage(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)
	controller.Reset(domain.FeedFilter{Search: " go "})

	calls := 0
	source.EXPECT().FetchPage(mockAnyContext(), mock.MatchedBy(func(q domain.FeedQuery) bool {
		return q.Cursor == "" && q.Filter.Search == "go"
	})).RunAndReturn(func(context.Context, domain.FeedQuery) (domain.FeedPage, error) {
		calls++
		return domain.FeedPage{Items: items(fmt.Sprintf("r%d", calls))}, nil
	}).Twice()

	_, err := controller.LoadNext(context.Background())
	require.NoError(t, err)
	loaded, err := controller.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, []string{"r2"}, ids(controller.Snapshot()))
}

func TestFeedControllerSubscribeReceivesSnapshots(t *testing.T) {
	t.Parallel()

	source := mocks.NewMockFeedSource(t)
	controller := NewFeedController(source, "posts", 2)
	source.EXPECT().FetchPage(mockAnyContext(), mock.Anything).
		Return(domain.FeedPage{Items: items("1")}, nil).Once()

	var snapshots []domain.FeedSnapshot
	unsubscribe := controller.Subscribe(func(s domain.FeedSnapshot) { snapshots = append(snapshots, s) })
	_, err := controller.LoadNext(context.Background())
	require.NoError(t, err)
	unsubscribe()
	controller.Prepend(domain.Item{ID: "2"})

	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].Loading)
	assert.False(t, snapshots[1].Loading)
	assert.Equal(t, []string{"1"}, ids(snapshots[1]))
}
