package characters

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/talekeeper/combat-api/internal/entities"
	"github.com/talekeeper/combat-api/internal/errors"
	"github.com/talekeeper/combat-api/internal/pkg/clock"
	redisclient "github.com/talekeeper/combat-api/internal/redis"
)

const (
	characterKeyPrefix = "character:"
	nameIndexKey       = "character:names"

	// Error messages
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
	errNameEmpty        = "character name cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis character repository.
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

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Use real clock if none provided
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

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if input.Character.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	key := characterKeyPrefix + input.Character.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExists("character with ID " + input.Character.ID + " already exists")
	}

	now := r.clock.Now()
	input.Character.CreatedAt = now
	input.Character.UpdatedAt = now

	data, err := json.Marshal(input.Character)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	// Character record plus name index, atomically
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0) // No TTL for characters
	pipe.HSet(ctx, nameIndexKey, input.Character.Name, input.Character.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	}

	return &CreateOutput{Character: input.Character}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	char, err := r.getByKey(ctx, characterKeyPrefix+input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Character: char}, nil
}

func (r *redisRepository) GetByName(ctx context.Context, input GetByNameInput) (*GetByNameOutput, error) {
	if input.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	id, err := r.client.HGet(ctx, nameIndexKey, input.Name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character named %q not found", input.Name)
		}
		return nil, errors.Wrapf(err, "failed to look up character name")
	}

	char, err := r.getByKey(ctx, characterKeyPrefix+id)
	if err != nil {
		return nil, err
	}

	return &GetByNameOutput{Character: char}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	ids, err := r.client.HVals(ctx, nameIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list characters")
	}

	characters := make([]*entities.Character, 0, len(ids))
	for _, id := range ids {
		char, err := r.getByKey(ctx, characterKeyPrefix+id)
		if err != nil {
			if errors.IsNotFound(err) {
				// Stale index entry; skip rather than fail the listing.
				continue
			}
			return nil, err
		}
		characters = append(characters, char)
	}

	sortCharactersByName(characters)
	return &ListOutput{Characters: characters}, nil
}

func (r *redisRepository) UpdateHP(ctx context.Context, input UpdateHPInput) (*UpdateHPOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := characterKeyPrefix + input.ID
	char, err := r.getByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	char.HPCurrent = input.HP
	char.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update character HP")
	}

	return &UpdateHPOutput{Character: char}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := characterKeyPrefix + input.ID
	char, err := r.getByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HDel(ctx, nameIndexKey, char.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func sortCharactersByName(characters []*entities.Character) {
	sort.Slice(characters, func(i, j int) bool {
		return characters[i].Name < characters[j].Name
	})
}

func (r *redisRepository) getByKey(ctx context.Context, key string) (*entities.Character, error) {
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character %s not found", key[len(characterKeyPrefix):])
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	var char entities.Character
	if err := json.Unmarshal([]byte(result), &char); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character")
	}

	return &char, nil
}
