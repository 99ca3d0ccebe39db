package inventory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/globalevent/service-ticketing/internal/ticketing"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "concert:"

// decrementScript is the admission-control gate. Redis executes scripts
// atomically, so two concurrent purchases of the last ticket can never both
// pass the tickets_left > 0 check. A missing concert counts as sold out.
var decrementScript = redis.NewScript(`
local left = redis.call('HGET', KEYS[1], 'tickets_left')
if not left or tonumber(left) < tonumber(ARGV[1]) then
  return -1
end
return redis.call('HINCRBY', KEYS[1], 'tickets_left', -ARGV[1])
`)

// Store keeps each concert as a hash under concert:<event_id>.
type Store struct {
	rdb *redis.Client
}

func NewStore(ctx context.Context, redisURL string) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, fmt.Errorf("failed to instrument redis client: %w", err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// ConditionalDecrement takes one ticket off eventID and returns the count
// that remains. ticketing.ErrInsufficientStock means the concert is sold out
// (or unknown); any other error means the store was unreachable and the
// decrement is assumed not applied.
func (s *Store) ConditionalDecrement(ctx context.Context, eventID string) (int64, error) {
	remaining, err := decrementScript.Run(ctx, s.rdb, []string{keyPrefix + eventID}, 1).Int64()
	if err != nil {
		return 0, fmt.Errorf("conditional decrement for %s: %w", eventID, err)
	}
	if remaining < 0 {
		return 0, fmt.Errorf("event %s: %w", eventID, ticketing.ErrInsufficientStock)
	}
	return remaining, nil
}

// List returns a full snapshot of the catalog. No ordering guarantee.
func (s *Store) List(ctx context.Context) ([]ticketing.Concert, error) {
	concerts := []ticketing.Concert{}
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		fields, err := s.rdb.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", iter.Val(), err)
		}
		if len(fields) == 0 {
			// key expired between SCAN and HGETALL
			continue
		}
		concert, err := concertFromHash(fields)
		if err != nil {
			return nil, fmt.Errorf("corrupt entry %s: %w", iter.Val(), err)
		}
		concerts = append(concerts, concert)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan catalog: %w", err)
	}
	return concerts, nil
}

// Put creates or replaces a catalog entry. Used by catalog seeding; the
// purchase path never calls it.
func (s *Store) Put(ctx context.Context, c ticketing.Concert) error {
	err := s.rdb.HSet(ctx, keyPrefix+c.EventID, map[string]interface{}{
		"event_id":     c.EventID,
		"artist":       c.Artist,
		"date":         c.Date,
		"tickets_left": c.TicketsLeft,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store concert %s: %w", c.EventID, err)
	}
	return nil
}

func concertFromHash(fields map[string]string) (ticketing.Concert, error) {
	left, err := strconv.ParseInt(fields["tickets_left"], 10, 64)
	if err != nil {
		return ticketing.Concert{}, fmt.Errorf("bad tickets_left %q: %w", fields["tickets_left"], err)
	}
	return ticketing.Concert{
		EventID:     fields["event_id"],
		Artist:      fields["artist"],
		Date:        fields["date"],
		TicketsLeft: left,
	}, nil
}
