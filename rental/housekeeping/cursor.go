package housekeeping

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
)

const defaultCursorKey = "cyclerental:relay:cursor"

var ErrCorruptCursor = errors.New("relay cursor is not a sequence number")

// Cursor stores the sequence number of the last relayed event.
type Cursor interface {
	Load(ctx context.Context) (eventstore.MaxSequenceNumberUint, error)
	Save(ctx context.Context, sequenceNumber eventstore.MaxSequenceNumberUint) error
}

// MemoryCursor keeps the position in memory, a restarted relay starts from the beginning.
type MemoryCursor struct {
	mu             sync.Mutex
	sequenceNumber eventstore.MaxSequenceNumberUint
}

func NewMemoryCursor() *MemoryCursor {
	return &MemoryCursor{}
}

func (c *MemoryCursor) Load(_ context.Context) (eventstore.MaxSequenceNumberUint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sequenceNumber, nil
}

func (c *MemoryCursor) Save(_ context.Context, sequenceNumber eventstore.MaxSequenceNumberUint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sequenceNumber = sequenceNumber

	return nil
}

// RedisCursorClient is the part of *redis.Client the cursor needs.
type RedisCursorClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCursor keeps the position in a Redis key without expiry.
type RedisCursor struct {
	client RedisCursorClient
	key    string
}

// NewRedisCursor creates a RedisCursor, an empty key uses the default key.
func NewRedisCursor(client RedisCursorClient, key string) *RedisCursor {
	if key == "" {
		key = defaultCursorKey
	}

	return &RedisCursor{client: client, key: key}
}

func (c *RedisCursor) Load(ctx context.Context) (eventstore.MaxSequenceNumberUint, error) {
	val, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	sequenceNumber, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrCorruptCursor, err)
	}

	return eventstore.MaxSequenceNumberUint(sequenceNumber), nil
}

func (c *RedisCursor) Save(ctx context.Context, sequenceNumber eventstore.MaxSequenceNumberUint) error {
	return c.client.Set(ctx, c.key, strconv.FormatUint(uint64(sequenceNumber), 10), 0).Err()
}
