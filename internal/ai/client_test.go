package ai

import (
	"bytes"
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/config"
)

// stubMessages подменяет Messages API детерминированным ответом
type stubMessages struct {
	resp       string
	err        error
	lastParams anthropic.MessageNewParams
	calls      int
}

func (s *stubMessages) New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	s.calls++
	s.lastParams = body
	if s.err != nil {
		return nil, s.err
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: s.resp},
		},
	}, nil
}

// newTestClient — вспомогательная функция для создания клиента со стабом вместо апстрима.
func newTestClient(stub *stubMessages) *Client {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return &Client{
		messages: stub,
		model:    "claude-3-5-haiku-20241022",
		logger:   logger,
		cfg:      &config.Config{EnrichmentTimeout: time.Second},
	}
}
