package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"hostelhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	scheduleKeyPrefix     = "schedule:"
	studentSchedulePrefix = "schedules:student:"
	allSchedulesKey       = "schedules:all"
)

// RedisScheduleStore keeps each schedule as a JSON document with set indexes
// per student and across all schedules.
type RedisScheduleStore struct {
	client *redis.Client
}

func NewRedisScheduleStore(client *redis.Client) *RedisScheduleStore {
	return &RedisScheduleStore{client: client}
}

func (s *RedisScheduleStore) GetSchedule(ctx context.Context, id uuid.UUID) (*models.PaymentSchedule, error) {
	data, err := s.client.Get(ctx, scheduleKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sch models.PaymentSchedule
	if err := json.Unmarshal(data, &sch); err != nil {
		return nil, err
	}
	return &sch, nil
}

func (s *RedisScheduleStore) SaveSchedule(ctx context.Context, id uuid.UUID, schedule *models.PaymentSchedule) error {
	schedule.ID = id
	data, err := json.Marshal(schedule)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, scheduleKeyPrefix+id.String(), data, 0)
		pipe.SAdd(ctx, studentSchedulePrefix+schedule.StudentID.String(), id.String())
		pipe.SAdd(ctx, allSchedulesKey, id.String())
		return nil
	})
	return err
}

func (s *RedisScheduleStore) ListSchedulesForStudent(ctx context.Context, studentID uuid.UUID) ([]models.PaymentSchedule, error) {
	list, err := s.loadSet(ctx, studentSchedulePrefix+studentID.String())
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartDate.Before(list[j].StartDate) })
	return list, nil
}

func (s *RedisScheduleStore) ListActiveSchedules(ctx context.Context) ([]models.PaymentSchedule, error) {
	all, err := s.loadSet(ctx, allSchedulesKey)
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, sch := range all {
		if sch.IsActive {
			active = append(active, sch)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].NextDueDate.Before(active[j].NextDueDate) })
	return active, nil
}

func (s *RedisScheduleStore) loadSet(ctx context.Context, setKey string) ([]models.PaymentSchedule, error) {
	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = scheduleKeyPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	list := make([]models.PaymentSchedule, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var sch models.PaymentSchedule
		if err := json.Unmarshal([]byte(raw), &sch); err != nil {
			return nil, err
		}
		list = append(list, sch)
	}
	return list, nil
}
