// internal/smartmatch/store/redis_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartmatch-workers/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisProfiles_GetProfiles(t *testing.T) {
	client, mock := redismock.NewClientMock()
	r := NewRedisProfiles(client)

	mock.ExpectMGet(ProfileKey("biz-1"), ProfileKey("biz-2")).
		SetVal([]interface{}{`{"businessId":"biz-1"}`, nil})

	docs, err := r.GetProfiles(context.Background(), []string{"biz-1", "biz-2"})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, `{"businessId":"biz-1"}`, string(docs["biz-1"]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisProfiles_PutProfile(t *testing.T) {
	client, mock := redismock.NewClientMock()
	r := NewRedisProfiles(client)
	doc := []byte(`{"businessId":"biz-1"}`)

	mock.ExpectSet(ProfileKey("biz-1"), doc, 6*time.Hour).SetVal("OK")

	require.NoError(t, r.PutProfile(context.Background(), "biz-1", doc, 6*time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisScoreCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisScoreCache(client)
	ctx := context.Background()

	mock.ExpectGet(RankKey("abc")).RedisNil()
	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	mock.ExpectGet(RankKey("abc")).SetVal(`{"items":[]}`)
	got, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))

	mock.ExpectGet(RankKey("abc")).SetErr(errors.New("timeout"))
	_, err = c.Get(ctx, "abc")
	assert.Error(t, err)
}

type memoryDocs struct {
	docs map[string][]byte
	err  error
}

func (m *memoryDocs) GetProfiles(_ context.Context, ids []string) (map[string][]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string][]byte{}
	for _, id := range ids {
		if d, ok := m.docs[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (m *memoryDocs) PutProfile(_ context.Context, id string, doc []byte, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.docs[id] = doc
	return nil
}

func TestTiered_ReadsMirrorThenPrimaryAndBackfills(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set(ProfileKey("biz-1"), `{"businessId":"biz-1"}`))
	primary := &memoryDocs{docs: map[string][]byte{
		"biz-2": []byte(`{"businessId":"biz-2"}`),
	}}

	tiered := NewTiered(primary, NewRedisProfiles(client), time.Hour, logger.NewTestLogger(t))

	docs, err := tiered.GetProfiles(context.Background(), []string{"biz-1", "biz-2", "biz-3"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	backfilled, err := mr.Get(ProfileKey("biz-2"))
	require.NoError(t, err)
	assert.Equal(t, `{"businessId":"biz-2"}`, backfilled)
	assert.True(t, mr.TTL(ProfileKey("biz-2")) > 0)
}

func TestTiered_MirrorDownFallsBackToPrimary(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	primary := &memoryDocs{docs: map[string][]byte{"biz-1": []byte(`{}`)}}
	tiered := NewTiered(primary, NewRedisProfiles(client), time.Hour, logger.NewTestLogger(t))

	docs, err := tiered.GetProfiles(context.Background(), []string{"biz-1"})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, tiered.PutProfile(context.Background(), "biz-2", []byte(`{}`), time.Hour))
	assert.Contains(t, primary.docs, "biz-2")
}

func TestTiered_PrimaryWriteFailureIsReturned(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	primary := &memoryDocs{docs: map[string][]byte{}, err: errors.New("db down")}
	tiered := NewTiered(primary, NewRedisProfiles(client), time.Hour, logger.NewTestLogger(t))

	err := tiered.PutProfile(context.Background(), "biz-1", []byte(`{}`), time.Hour)
	assert.Error(t, err)
	assert.False(t, mr.Exists(ProfileKey("biz-1")))
}
