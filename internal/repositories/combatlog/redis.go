package combatlog

import (
	"context"
	"encoding/json"

	"github.com/talekeeper/combat-api/internal/errors"
	"github.com/talekeeper/combat-api/internal/pkg/clock"
	redisclient "github.com/talekeeper/combat-api/internal/redis"
)

const (
	logKeyPrefix = "combatlog:"
	seqKeySuffix = ":seq"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis combat log repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed combat log repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if input.Entry == nil {
		return nil, errors.InvalidArgument("entry cannot be nil")
	}
	if input.Entry.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID cannot be empty")
	}

	// INCR hands out the sequence number; entries carry it in their
	// payload so readers never have to recompute positions.
	seq, err := r.client.Incr(ctx, logKeyPrefix+input.Entry.EncounterID+seqKeySuffix).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to allocate sequence number")
	}

	input.Entry.Sequence = int(seq)
	input.Entry.CreatedAt = r.clock.Now()

	data, err := json.Marshal(input.Entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal log entry")
	}

	if err := r.client.RPush(ctx, logKeyPrefix+input.Entry.EncounterID, data).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to append log entry")
	}

	return &AppendOutput{Entry: input.Entry}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID cannot be empty")
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgumentf("limit must be non-negative, got %d", input.Limit)
	}

	start := int64(0)
	if input.Limit > 0 {
		start = int64(-input.Limit)
	}

	raw, err := r.client.LRange(ctx, logKeyPrefix+input.EncounterID, start, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list log entries")
	}

	entries := make([]*Entry, 0, len(raw))
	for i, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal log entry %d", i)
		}
		entries = append(entries, &entry)
	}

	return &ListOutput{Entries: entries}, nil
}
