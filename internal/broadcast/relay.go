package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	eventQueueKey  = "broadcast_events"
	publishTimeout = 5 * time.Second
)

// RedisRelay кладет события в очередь Redis, откуда RelayWorker доставляет
// их внешним потребителям вебхуком. Сбой публикации логируется и глотается:
// доставка слушателям не должна ломать породившую событие операцию.
type RedisRelay struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewRedisRelay создает приемник событий на базе очереди Redis
func NewRedisRelay(client *redis.Client, logger *logrus.Logger) *RedisRelay {
	return &RedisRelay{redisClient: client, logger: logger}
}

// Send публикует событие в очередь
func (r *RedisRelay) Send(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.WithError(err).WithField("event_type", event.Type).
			Error("Failed to marshal event for relay queue")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	// LPUSH добавляет событие в левую часть списка (очереди)
	if err := r.redisClient.LPush(ctx, eventQueueKey, payload).Err(); err != nil {
		r.logger.WithError(err).WithField("event_type", event.Type).
			Error("Failed to push event to relay queue")
	}
}
