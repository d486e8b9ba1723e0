package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/config"
	"github.com/shenikar/disaster_response_hub/internal/models"
)

// Enrichment — результат обогащения миссии текстовой моделью
type Enrichment struct {
	Description     string  `json:"description"`
	Reasoning       string  `json:"reasoning"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// Enricher — контракт обогащения миссий. Реализация никогда не возвращает
// ошибку: любой сбой деградирует до детерминированного шаблона.
type Enricher interface {
	EnrichMission(ctx context.Context, incident *models.Incident, need string) Enrichment
}

// IntakeParser — контракт разбора свободного текста сообщения об инциденте
type IntakeParser interface {
	ParseIncidentReport(ctx context.Context, description string) (*models.Incident, error)
}

// messageAPI абстрагирует Messages API для подмены в тестах
type messageAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Client — клиент текстовой генерации на базе Anthropic Messages API.
// Апстрим считается ненадежным: все вызовы идут с ограничением по времени.
type Client struct {
	messages messageAPI
	model    string
	logger   *logrus.Logger
	cfg      *config.Config
}

// NewClient создает клиент текстовой генерации
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	ac := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	return &Client{
		messages: &ac.Messages,
		model:    cfg.AnthropicModel,
		logger:   logger,
		cfg:      cfg,
	}
}

// complete выполняет один запрос к модели и возвращает текст ответа
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int64) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.EnrichmentTimeout)
	defer cancel()

	resp, err := c.messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
