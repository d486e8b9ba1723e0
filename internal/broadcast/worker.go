package broadcast

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/config"
)

// RelayWorker извлекает события из очереди Redis и доставляет их на
// настроенный webhook URL внешнего потребителя
type RelayWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

// NewRelayWorker создает новый RelayWorker
func NewRelayWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *RelayWorker {
	return &RelayWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
	}
}

// Start запускает горутину для обработки очереди событий
func (w *RelayWorker) Start(ctx context.Context) {
	w.logger.Info("Starting broadcast relay worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping broadcast relay worker.")
				return
			default:
				// BRPOP — блокирующее извлечение из правой части списка,
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, eventQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop event from relay queue")
					time.Sleep(w.cfg.WebhookTimeout)
					continue
				}

				// result[0] — ключ, result[1] — значение
				payload := result[1]
				var event Event
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal event from relay queue")
					continue
				}

				w.deliver(ctx, event, payload)
			}
		}
	}()
}

func (w *RelayWorker) deliver(ctx context.Context, event Event, rawPayload string) {
	log := w.logger.WithField("event_type", event.Type)
	log.Debug("Delivering relayed event...")

	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping event delivery.")
		return
	}

	maxRetries := w.cfg.WebhookMaxRetries
	delay := w.cfg.WebhookBaseDelay

	for i := 0; i < maxRetries; i++ {
		// Экспоненциальная задержка только между попытками: последняя
		// неудача завершает цикл без ожидания
		if i > 0 {
			time.Sleep(delay)
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", w.cfg.WebhookURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			log.WithError(err).Errorf("Failed to create webhook request. Retries left: %d", maxRetries-1-i)
			continue
		}

		req.Header.Set("Content-Type", "application/json")

		// Добавляем HMAC подпись, если WEBHOOK_SECRET задан
		if w.cfg.WebhookSecret != "" {
			signature := generateHMACSHA256(rawPayload, w.cfg.WebhookSecret)
			req.Header.Set("X-Webhook-Signature", signature)
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			log.WithError(err).Warnf("Failed to deliver event. Retries left: %d", maxRetries-1-i)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Info("Event delivered successfully.")
			return
		}

		log.Warnf("Event delivery failed with status code %d. Retries left: %d", resp.StatusCode, maxRetries-1-i)
	}

	log.Errorf("Failed to deliver event after %d retries.", maxRetries)
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
