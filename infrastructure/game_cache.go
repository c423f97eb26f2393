package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookie/domain/entities"
	"bookie/domain/interfaces"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// gameCacheTTL bounds staleness of cached game definitions. Stake bounds and
// availability tolerate a short lag; admin writes invalidate eagerly anyway.
const gameCacheTTL = 5 * time.Minute

// CachedGameRepository is a read-through Redis cache in front of the game
// repository. Games are read on every bet placement and change rarely.
type CachedGameRepository struct {
	inner interfaces.GameRepository
	rdb   *redis.Client
}

// NewCachedGameRepository wraps a game repository with a Redis cache
func NewCachedGameRepository(inner interfaces.GameRepository, rdb *redis.Client) interfaces.GameRepository {
	return &CachedGameRepository{inner: inner, rdb: rdb}
}

// ConnectRedis creates and pings a Redis client
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func gameKey(id int64) string {
	return fmt.Sprintf("game:%d", id)
}

func (r *CachedGameRepository) GetByID(ctx context.Context, id int64) (*entities.Game, error) {
	val, err := r.rdb.Get(ctx, gameKey(id)).Result()
	if err == nil {
		var game entities.Game
		if err := json.Unmarshal([]byte(val), &game); err == nil {
			return &game, nil
		}
		// Unreadable entry: fall through to the source and rewrite it.
	} else if err != redis.Nil {
		log.WithFields(log.Fields{
			"gameID": id,
			"error":  err,
		}).Warn("Game cache read failed, falling back to database")
	}

	game, err := r.inner.GetByID(ctx, id)
	if err != nil || game == nil {
		return game, err
	}

	if data, err := json.Marshal(game); err == nil {
		if err := r.rdb.Set(ctx, gameKey(id), data, gameCacheTTL).Err(); err != nil {
			log.WithFields(log.Fields{
				"gameID": id,
				"error":  err,
			}).Warn("Game cache write failed")
		}
	}

	return game, nil
}

func (r *CachedGameRepository) Create(ctx context.Context, game *entities.Game) error {
	return r.inner.Create(ctx, game)
}

func (r *CachedGameRepository) Update(ctx context.Context, game *entities.Game) error {
	if err := r.inner.Update(ctx, game); err != nil {
		return err
	}
	if err := r.rdb.Del(ctx, gameKey(game.ID)).Err(); err != nil {
		log.WithFields(log.Fields{
			"gameID": game.ID,
			"error":  err,
		}).Warn("Game cache invalidation failed")
	}
	return nil
}

func (r *CachedGameRepository) List(ctx context.Context) ([]*entities.Game, error) {
	return r.inner.List(ctx)
}
