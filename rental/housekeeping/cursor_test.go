package housekeeping_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/housekeeping"
)

type fakeRedis struct {
	values map[string]string
	down   bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}}
}

func (r *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if r.down {
		return redis.NewStringResult("", errors.New("connection refused"))
	}

	val, ok := r.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(val, nil)
}

func (r *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if r.down {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}

	r.values[key], _ = value.(string)

	return redis.NewStatusResult("OK", nil)
}

func Test_RedisCursor_StartsAtZero_AndRoundTrips(t *testing.T) {
	// setup
	ctx := context.Background()
	client := newFakeRedis()
	cursor := housekeeping.NewRedisCursor(client, "")

	// act
	initial, initialErr := cursor.Load(ctx)
	saveErr := cursor.Save(ctx, 42)
	loaded, loadedErr := cursor.Load(ctx)

	// assert
	require.NoError(t, initialErr)
	require.NoError(t, saveErr)
	require.NoError(t, loadedErr)
	assert.Zero(t, initial)
	assert.Equal(t, uint(42), loaded)
	assert.Equal(t, "42", client.values["cyclerental:relay:cursor"])
}

func Test_RedisCursor_Load_Error_Corrupt(t *testing.T) {
	// setup
	client := newFakeRedis()
	client.values["relay"] = "not-a-number"

	// act
	_, err := housekeeping.NewRedisCursor(client, "relay").Load(context.Background())

	// assert
	assert.ErrorIs(t, err, housekeeping.ErrCorruptCursor)
}

func Test_RedisCursor_Error_ServerDown(t *testing.T) {
	// setup
	ctx := context.Background()
	client := newFakeRedis()
	client.down = true
	cursor := housekeeping.NewRedisCursor(client, "")

	// act
	_, loadErr := cursor.Load(ctx)
	saveErr := cursor.Save(ctx, 1)

	// assert
	assert.Error(t, loadErr)
	assert.Error(t, saveErr)
}

func Test_MemoryCursor_RoundTrips(t *testing.T) {
	ctx := context.Background()
	cursor := housekeeping.NewMemoryCursor()

	require.NoError(t, cursor.Save(ctx, 7))
	loaded, err := cursor.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, uint(7), loaded)
}
