package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storescout/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupMiniredis(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, logger.NewTestLogger(t)), mr
}

func TestGetOrCompute_ComputesOnceAndCaches(t *testing.T) {
	c, mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) (payload, error) {
		calls++
		return payload{Name: "chicken", Count: 12}, nil
	}

	first, err := GetOrCompute(ctx, c, Key("poi", "11680", "chicken"), TTLDaily, compute)
	require.NoError(t, err)
	assert.Equal(t, 12, first.Count)
	c.Wait()

	second, err := GetOrCompute(ctx, c, Key("poi", "11680", "chicken"), TTLDaily, compute)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second call must be served from cache")

	require.True(t, mr.Exists("poi:11680:chicken"))
}

func TestGetOrCompute_DistinctKeysDoNotCollide(t *testing.T) {
	c, _ := setupMiniredis(t)
	ctx := context.Background()

	a, err := GetOrCompute(ctx, c, Key("poi", "11680", "chicken"), TTLDaily, func(ctx context.Context) (payload, error) {
		return payload{Name: "chicken"}, nil
	})
	require.NoError(t, err)
	c.Wait()

	b, err := GetOrCompute(ctx, c, Key("poi", "11680", "cafe"), TTLDaily, func(ctx context.Context) (payload, error) {
		return payload{Name: "cafe"}, nil
	})
	require.NoError(t, err)

	assert.NotEqual(t, a.Name, b.Name)
}

func TestGetOrCompute_TTLApplied(t *testing.T) {
	c, mr := setupMiniredis(t)
	ctx := context.Background()

	_, err := GetOrCompute(ctx, c, "vitality:11680", TTLQuarterly, func(ctx context.Context) (payload, error) {
		return payload{Name: "q2"}, nil
	})
	require.NoError(t, err)
	c.Wait()

	assert.Equal(t, TTLQuarterly, mr.TTL("vitality:11680"))

	mr.FastForward(TTLQuarterly + time.Minute)
	assert.False(t, mr.Exists("vitality:11680"))
}

func TestGetOrCompute_ComputeErrorNotCached(t *testing.T) {
	c, mr := setupMiniredis(t)
	ctx := context.Background()

	wantErr := errors.New("upstream down")
	_, err := GetOrCompute(ctx, c, "biz:11680", TTLDaily, func(ctx context.Context) (payload, error) {
		return payload{}, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	c.Wait()
	assert.False(t, mr.Exists("biz:11680"))
}

func TestGetOrCompute_BackendDownFallsThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("biz:11680").SetErr(errors.New("connection refused"))

	c := New(client, logger.NewNoOpLogger())

	got, err := GetOrCompute(context.Background(), c, "biz:11680", TTLDaily, func(ctx context.Context) (payload, error) {
		return payload{Name: "direct", Count: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", got.Name)
}

func TestGetOrCompute_WriteFailureDoesNotFailCaller(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("biz:11680").RedisNil()
	data, _ := json.Marshal(payload{Name: "direct"})
	mock.ExpectSet("biz:11680", data, TTLDaily).SetErr(errors.New("write refused"))

	c := New(client, logger.NewNoOpLogger())

	got, err := GetOrCompute(context.Background(), c, "biz:11680", TTLDaily, func(ctx context.Context) (payload, error) {
		return payload{Name: "direct"}, nil
	})
	c.Wait()
	require.NoError(t, err)
	assert.Equal(t, "direct", got.Name)
}

func TestGetOrCompute_UndecodableEntryRecomputed(t *testing.T) {
	c, mr := setupMiniredis(t)
	require.NoError(t, mr.Set("poi:bad", "{not-json"))

	got, err := GetOrCompute(context.Background(), c, "poi:bad", TTLDaily, func(ctx context.Context) (payload, error) {
		return payload{Name: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Name)
}

func TestGetOrCompute_NilClientDegradesToCompute(t *testing.T) {
	c := New(nil, logger.NewNoOpLogger())

	calls := 0
	for i := 0; i < 2; i++ {
		_, err := GetOrCompute(context.Background(), c, "k", TTLDaily, func(ctx context.Context) (payload, error) {
			calls++
			return payload{}, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "poi:11680:chicken", Key("poi", "11680", "chicken"))
}
