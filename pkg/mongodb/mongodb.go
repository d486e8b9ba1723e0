package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shenikar/disaster_response_hub/internal/config"
)

// NewMongoClient создает новый клиент MongoDB и проверяет соединение
func NewMongoClient(ctx context.Context, appCfg *config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(10).
		SetMinPoolSize(1).
		SetConnectTimeout(30 * time.Second).
		SetServerSelectionTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать клиент mongodb: %w", err)
	}

	// Проверяем соединение с базой данных
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("не удалось выполнить ping к mongodb: %w", err)
	}

	return client, nil
}
