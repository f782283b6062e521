package engagement

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/bionicotaku/lingo-services-features/internal/catalog"
	"github.com/bionicotaku/lingo-services-features/internal/models/po"
	"github.com/bionicotaku/lingo-services-features/internal/services"
	"github.com/bionicotaku/lingo-services-features/internal/stream"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
)

// ---- Test Doubles ----

type fakeOnlineStore struct {
	counters map[string]int64
	values   map[string]string
	failing  bool
}

func newFakeOnlineStore() *fakeOnlineStore {
	return &fakeOnlineStore{
		counters: make(map[string]int64),
		values:   make(map[string]string),
	}
}

func (f *fakeOnlineStore) Set(_ context.Context, def catalog.FeatureDefinition, entityID string, value any) {
	if f.failing {
		return
	}
	f.values[def.OnlineKey(entityID)] = fmt.Sprint(value)
}

func (f *fakeOnlineStore) Get(_ context.Context, def catalog.FeatureDefinition, entityID string) (string, bool) {
	if f.failing {
		return "", false
	}
	key := def.OnlineKey(entityID)
	if v, ok := f.counters[key]; ok {
		return fmt.Sprint(v), true
	}
	if v, ok := f.values[key]; ok {
		return v, true
	}
	return "", false
}

func (f *fakeOnlineStore) Increment(_ context.Context, def catalog.FeatureDefinition, entityID string, delta int64) (int64, bool) {
	if f.failing {
		return 0, false
	}
	key := def.OnlineKey(entityID)
	f.counters[key] += delta
	return f.counters[key], true
}

type fakeOfflineStore struct {
	rows []po.OfflineFeatureRow
}

func (f *fakeOfflineStore) Append(_ context.Context, _ txmanager.Session, row po.OfflineFeatureRow) error {
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeOfflineStore) byFeature(name string) []po.OfflineFeatureRow {
	var out []po.OfflineFeatureRow
	for _, row := range f.rows {
		if row.FeatureName == name {
			out = append(out, row)
		}
	}
	return out
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, nil)
}

func newTestProcessor(t *testing.T, online *fakeOnlineStore, offline *fakeOfflineStore) *Processor {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)
	writer, err := services.NewFeatureWriter(online, offline, fakeTxRunner{}, 0, logger)
	require.NoError(t, err)
	handler := NewEventHandler(writer, logger, nil)
	return NewProcessor(handler, nil, logger)
}

func userEventPayload(eventType, userID string) []byte {
	return []byte(fmt.Sprintf(`{"event_type":%q,"user_id":%q,"post_id":"post_1","timestamp":"2026-08-30T12:00:00Z"}`, eventType, userID))
}

// ---- Tests ----

func TestProcessorComputesEngagementScore(t *testing.T) {
	online := newFakeOnlineStore()
	offline := &fakeOfflineStore{}
	proc := newTestProcessor(t, online, offline)
	ctx := context.Background()

	sequence := []string{"user_click", "user_view", "user_click", "user_view", "user_click"}
	for _, eventType := range sequence {
		err := proc.Process(ctx, &stream.Record{Topic: stream.TopicUserEvents, Key: "user_7", Payload: userEventPayload(eventType, "user_7")})
		require.NoError(t, err)
	}

	clicksDef, _ := catalog.Lookup(catalog.UserClicks1h)
	viewsDef, _ := catalog.Lookup(catalog.UserViews1h)
	scoreDef, _ := catalog.Lookup(catalog.UserEngagementScore)

	require.Equal(t, int64(3), online.counters[clicksDef.OnlineKey("user_7")])
	require.Equal(t, int64(2), online.counters[viewsDef.OnlineKey("user_7")])
	require.Equal(t, "11", online.values[scoreDef.OnlineKey("user_7")], "score = views*1 + clicks*3")

	counterRows := len(offline.byFeature(catalog.UserClicks1h)) + len(offline.byFeature(catalog.UserViews1h))
	require.Equal(t, 5, counterRows, "each event mirrors one counter row")

	scoreRows := offline.byFeature(catalog.UserEngagementScore)
	require.Len(t, scoreRows, 5, "score recomputed after every event")
	require.Equal(t, "11", scoreRows[len(scoreRows)-1].Value)
}

func TestProcessorDropsMissingUserID(t *testing.T) {
	online := newFakeOnlineStore()
	offline := &fakeOfflineStore{}
	proc := newTestProcessor(t, online, offline)

	err := proc.Process(context.Background(), &stream.Record{Topic: stream.TopicUserEvents, Payload: userEventPayload("user_click", "")})
	require.NoError(t, err)
	require.Empty(t, online.counters)
	require.Empty(t, offline.rows)
}

func TestProcessorDropsMalformedPayload(t *testing.T) {
	online := newFakeOnlineStore()
	offline := &fakeOfflineStore{}
	proc := newTestProcessor(t, online, offline)

	err := proc.Process(context.Background(), &stream.Record{Topic: stream.TopicUserEvents, Payload: []byte(`{"event_type":`)})
	require.NoError(t, err, "poison records must not abort the loop")
	require.Empty(t, offline.rows)
}

func TestProcessorUnknownTypeStillRecomputesScore(t *testing.T) {
	online := newFakeOnlineStore()
	offline := &fakeOfflineStore{}
	proc := newTestProcessor(t, online, offline)

	err := proc.Process(context.Background(), &stream.Record{Topic: stream.TopicUserEvents, Payload: userEventPayload("user_share", "user_1")})
	require.NoError(t, err)

	require.Empty(t, online.counters, "unknown types drive no counters")
	scoreRows := offline.byFeature(catalog.UserEngagementScore)
	require.Len(t, scoreRows, 1, "any event with a user_id recomputes the score")
	require.Equal(t, "0", scoreRows[0].Value)
}

func TestProcessorVoteOnlyRecomputesScore(t *testing.T) {
	online := newFakeOnlineStore()
	offline := &fakeOfflineStore{}
	proc := newTestProcessor(t, online, offline)

	err := proc.Process(context.Background(), &stream.Record{Topic: stream.TopicUserEvents, Payload: userEventPayload("user_upvote", "user_3")})
	require.NoError(t, err)

	require.Empty(t, online.counters, "votes do not drive counters yet")
	scoreRows := offline.byFeature(catalog.UserEngagementScore)
	require.Len(t, scoreRows, 1)
	require.Equal(t, "0", scoreRows[0].Value)
}

func TestProcessorDegradesWhenOnlineStoreDown(t *testing.T) {
	online := newFakeOnlineStore()
	online.failing = true
	offline := &fakeOfflineStore{}
	proc := newTestProcessor(t, online, offline)

	err := proc.Process(context.Background(), &stream.Record{Topic: stream.TopicUserEvents, Payload: userEventPayload("user_click", "user_5")})
	require.NoError(t, err)

	require.Empty(t, offline.byFeature(catalog.UserClicks1h), "failed increment must not mirror a counter value")
	scoreRows := offline.byFeature(catalog.UserEngagementScore)
	require.Len(t, scoreRows, 1, "score row is still appended from zeroed counters")
	require.Equal(t, "0", scoreRows[0].Value)
}
