package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const waitlistEntryPrefix = "waitlist:entry:"

// RedisWaitlistStore keeps entries as JSON documents and a sorted set per
// (hostel, room type) scored by arrival time.
type RedisWaitlistStore struct {
	client *redis.Client
}

func NewRedisWaitlistStore(client *redis.Client) *RedisWaitlistStore {
	return &RedisWaitlistStore{client: client}
}

func waitlistQueueKey(hostelID uuid.UUID, roomType domain.RoomType) string {
	return "waitlist:" + hostelID.String() + ":" + string(roomType)
}

func (s *RedisWaitlistStore) CreateEntry(ctx context.Context, e *models.WaitlistEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, waitlistEntryPrefix+e.ID.String(), data, 0)
		pipe.ZAdd(ctx, waitlistQueueKey(e.HostelID, e.RoomType), redis.Z{
			Score:  float64(e.CreatedAt.UnixMilli()),
			Member: e.ID.String(),
		})
		return nil
	})
	return err
}

func (s *RedisWaitlistStore) UpdateEntry(ctx context.Context, e *models.WaitlistEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	ok, err := s.client.SetXX(ctx, waitlistEntryPrefix+e.ID.String(), data, redis.KeepTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("waitlist entry", e.ID)
	}
	return nil
}

func (s *RedisWaitlistStore) GetEntry(ctx context.Context, id uuid.UUID) (*models.WaitlistEntry, error) {
	data, err := s.client.Get(ctx, waitlistEntryPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e models.WaitlistEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *RedisWaitlistStore) ListForHostelRoomType(ctx context.Context, hostelID uuid.UUID, roomType domain.RoomType) ([]models.WaitlistEntry, error) {
	ids, err := s.client.ZRange(ctx, waitlistQueueKey(hostelID, roomType), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = waitlistEntryPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	list := make([]models.WaitlistEntry, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var e models.WaitlistEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Priority > list[j].Priority })
	return list, nil
}
