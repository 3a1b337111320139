package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinebook/internal/model"
)

// seedScript fills the booked set only when it does not exist yet.  The
// existence check and the SADD run as one script, so a booking that lands
// first makes the key present and concurrent first reads seed it at most
// once.
var seedScript = redis.NewScript(`
	if #ARGV == 0 or redis.call('EXISTS', KEYS[1]) == 1 then
		return 0
	end
	redis.call('SADD', KEYS[1], unpack(ARGV))
	return 1
`)

// RedisAvailability keeps each booking key as a Redis set named
// showtime:{id}:booked:{date}.  Booking relies on the SADD reply, which is
// 1 only for the caller that inserted the member.
type RedisAvailability struct {
	rdb *redis.Client
}

// NewRedisAvailability returns a store bound to the given client.
func NewRedisAvailability(rdb *redis.Client) *RedisAvailability {
	return &RedisAvailability{rdb: rdb}
}

// BookedSetKey is the Redis key of the booked set for k.
func BookedSetKey(k model.BookingKey) string {
	return fmt.Sprintf("showtime:%s:booked:%s", k.ShowtimeID, k.Date)
}

func (s *RedisAvailability) IsBooked(ctx context.Context, key model.BookingKey, seat string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, BookedSetKey(key), seat).Result()
	if err != nil {
		return false, storeError("redis sismember", err)
	}
	return ok, nil
}

func (s *RedisAvailability) Book(ctx context.Context, key model.BookingKey, seat string) error {
	added, err := s.rdb.SAdd(ctx, BookedSetKey(key), seat).Result()
	if err != nil {
		return storeError("redis sadd", err)
	}
	if added == 0 {
		return ErrConflict
	}
	return nil
}

func (s *RedisAvailability) EnsureSeeded(ctx context.Context, key model.BookingKey, seats []string) (bool, error) {
	args := make([]interface{}, len(seats))
	for i, seat := range seats {
		args[i] = seat
	}
	n, err := seedScript.Run(ctx, s.rdb, []string{BookedSetKey(key)}, args...).Int64()
	if err != nil {
		return false, storeError("redis seed", err)
	}
	return n == 1, nil
}

func (s *RedisAvailability) Booked(ctx context.Context, key model.BookingKey) (map[string]struct{}, error) {
	members, err := s.rdb.SMembers(ctx, BookedSetKey(key)).Result()
	if err != nil {
		return nil, storeError("redis smembers", err)
	}
	out := make(map[string]struct{}, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	return out, nil
}

func (s *RedisAvailability) Close() error { return s.rdb.Close() }
