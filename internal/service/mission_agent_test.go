package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/disaster_response_hub/internal/ai"
	ai_mocks "github.com/shenikar/disaster_response_hub/internal/ai/mocks"
	"github.com/shenikar/disaster_response_hub/internal/broadcast"
	broadcast_mocks "github.com/shenikar/disaster_response_hub/internal/broadcast/mocks"
	"github.com/shenikar/disaster_response_hub/internal/models"
	"github.com/shenikar/disaster_response_hub/internal/service/mocks"
)

// newTestMissionAgent — вспомогательная функция для создания агента с моками.
func newTestMissionAgent(t *testing.T) (*MissionAgent, *mocks.MockMissionRepository, *ai_mocks.MockEnricher, *broadcast_mocks.MockBroadcaster) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockMissionRepository(ctrl)
	enricherMock := ai_mocks.NewMockEnricher(ctrl)
	broadcasterMock := broadcast_mocks.NewMockBroadcaster(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	agent := NewMissionAgent(repoMock, enricherMock, broadcasterMock, logger)
	return agent, repoMock, enricherMock, broadcasterMock
}

func testIncident(needs []string) *models.Incident {
	return &models.Incident{
		ID:          models.ParseDocID("65f1a2b3c4d5e6f708192a3b"),
		Type:        "Flood",
		Status:      models.IncidentStatusActive,
		Description: "Вода поднимается в жилом квартале",
		Needs:       needs,
		Location:    &models.GeoPoint{Type: "Point", Coordinates: []float64{-122.4194, 37.7749}},
		Dispatched:  true,
	}
}

func TestSynthesize_NoLocation(t *testing.T) {
	// Подготовка
	agent, _, _, _ := newTestMissionAgent(t)
	incident := testIncident([]string{"Water Rescue"})
	incident.Location = nil

	// Действие
	missions, err := agent.Synthesize(context.Background(), incident)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingLocation)
	assert.Nil(t, missions)
}

func TestSynthesize_CreatesMissionPerNeed(t *testing.T) {
	// Подготовка
	agent, repoMock, enricherMock, broadcasterMock := newTestMissionAgent(t)
	ctx := context.Background()
	incident := testIncident([]string{"Water Rescue", "Shelter"})
	incidentID := incident.ID.String()

	inserted := make(map[string]*models.Mission)

	// Ожидания
	repoMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)

	repoMock.EXPECT().
		FindByIncidentAndName(ctx, incidentID, gomock.Any()).
		Return(nil, nil).
		Times(2)

	enricherMock.EXPECT().
		EnrichMission(ctx, incident, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *models.Incident, need string) ai.Enrichment {
			return ai.Enrichment{
				Description:     "Помощь: " + need,
				Reasoning:       "matched by need",
				ConfidenceScore: 0.85,
			}
		}).
		Times(2)

	repoMock.EXPECT().
		Insert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, m *models.Mission) (string, error) {
			inserted[m.ID] = m
			return m.ID, nil
		}).
		Times(2)

	repoMock.EXPECT().
		GetByID(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (*models.Mission, error) {
			m, ok := inserted[id]
			if !ok {
				return nil, fmt.Errorf("mission %s: %w", id, ErrNotFound)
			}
			return m, nil
		}).
		Times(2)

	var events []broadcast.Event
	broadcasterMock.EXPECT().
		Broadcast(gomock.Any()).
		Do(func(e broadcast.Event) { events = append(events, e) }).
		Times(3)

	// Действие
	missions, err := agent.Synthesize(ctx, incident)

	// Проверки
	require.NoError(t, err)
	require.Len(t, missions, 2)

	assert.Equal(t, "Water Rescue - Flood Incident", missions[0].Name)
	assert.Equal(t, "Shelter - Flood Incident", missions[1].Name)
	for _, m := range missions {
		assert.Equal(t, incidentID, m.IncidentID)
		assert.Equal(t, models.MissionPriorityMedium, m.Priority)
		assert.Equal(t, models.MissionStatusPending, m.Status)
		assert.Equal(t, models.MissionWorkflowCreated, m.WorkflowStep)
		assert.True(t, strings.HasPrefix(m.ID, "mission_"))
		assert.Equal(t, "Incident_65f1a2b3", m.CommsChannel)
		assert.Nil(t, m.VolunteerID)
		assert.NotNil(t, m.AssignedResources)
		assert.Equal(t, incident.Location, m.Location)
		assert.False(t, m.Timeline.CreatedAt.IsZero())
		assert.Equal(t, 0.85, m.AIMetadata.ConfidenceScore)
	}

	// Два события mission_created и ровно один сигнал перезагрузки в конце
	require.Len(t, events, 3)
	assert.Equal(t, broadcast.EventMissionCreated, events[0].Type)
	assert.Equal(t, broadcast.EventMissionCreated, events[1].Type)
	assert.True(t, events[2].Reload)
}

func TestSynthesize_DefaultNeed(t *testing.T) {
	// Подготовка
	agent, repoMock, enricherMock, broadcasterMock := newTestMissionAgent(t)
	ctx := context.Background()
	incident := testIncident(nil)
	incident.Type = "Traffic Accident"
	incidentID := incident.ID.String()

	expectedName := "General Response - Traffic Accident Incident"
	var created *models.Mission

	// Ожидания
	repoMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)
	repoMock.EXPECT().FindByIncidentAndName(ctx, incidentID, expectedName).Return(nil, nil).Times(1)
	enricherMock.EXPECT().
		EnrichMission(ctx, incident, models.DefaultNeed).
		Return(ai.Enrichment{Description: "d", Reasoning: "r", ConfidenceScore: 0.75}).
		Times(1)
	repoMock.EXPECT().
		Insert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, m *models.Mission) (string, error) {
			created = m
			return m.ID, nil
		}).
		Times(1)
	repoMock.EXPECT().
		GetByID(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string) (*models.Mission, error) { return created, nil }).
		Times(1)
	broadcasterMock.EXPECT().Broadcast(gomock.Any()).Times(2)

	// Действие
	missions, err := agent.Synthesize(ctx, incident)

	// Проверки
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, expectedName, missions[0].Name)
	// Неизвестный тип с активным статусом дает высокий приоритет
	assert.Equal(t, models.MissionPriorityHigh, missions[0].Priority)
}

func TestSynthesize_Idempotent(t *testing.T) {
	// Подготовка
	agent, repoMock, _, broadcasterMock := newTestMissionAgent(t)
	ctx := context.Background()
	incident := testIncident([]string{"Water Rescue"})
	incidentID := incident.ID.String()

	existing := &models.Mission{
		ID:         "mission_1700000000000_abc123def",
		IncidentID: incidentID,
		Name:       "Water Rescue - Flood Incident",
	}

	// Ожидания: миссия уже есть, вставка и обогащение не вызываются
	repoMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{existing}, nil).Times(1)
	repoMock.EXPECT().
		FindByIncidentAndName(ctx, incidentID, existing.Name).
		Return(existing, nil).
		Times(1)

	// Сигнал перезагрузки отправляется даже когда создавать было нечего
	var events []broadcast.Event
	broadcasterMock.EXPECT().
		Broadcast(gomock.Any()).
		Do(func(e broadcast.Event) { events = append(events, e) }).
		Times(1)

	// Действие
	missions, err := agent.Synthesize(ctx, incident)

	// Проверки
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Same(t, existing, missions[0])
	require.Len(t, events, 1)
	assert.True(t, events[0].Reload)
}

func TestSynthesize_PartialFailure(t *testing.T) {
	// Подготовка
	agent, repoMock, enricherMock, broadcasterMock := newTestMissionAgent(t)
	ctx := context.Background()
	incident := testIncident([]string{"Water Rescue", "Shelter", "Food Supplies"})
	incidentID := incident.ID.String()

	inserted := make(map[string]*models.Mission)
	insertErr := fmt.Errorf("write concern timeout")

	// Ожидания
	repoMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)
	repoMock.EXPECT().FindByIncidentAndName(ctx, incidentID, gomock.Any()).Return(nil, nil).Times(3)
	enricherMock.EXPECT().
		EnrichMission(ctx, incident, gomock.Any()).
		Return(ai.Enrichment{Description: "d", Reasoning: "r", ConfidenceScore: 0.85}).
		Times(3)

	// Вторая потребность падает на вставке, остальные проходят
	repoMock.EXPECT().
		Insert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, m *models.Mission) (string, error) {
			if m.Name == "Shelter - Flood Incident" {
				return "", insertErr
			}
			inserted[m.ID] = m
			return m.ID, nil
		}).
		Times(3)
	repoMock.EXPECT().
		GetByID(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (*models.Mission, error) {
			return inserted[id], nil
		}).
		Times(2)

	var events []broadcast.Event
	broadcasterMock.EXPECT().
		Broadcast(gomock.Any()).
		Do(func(e broadcast.Event) { events = append(events, e) }).
		Times(3)

	// Действие
	missions, err := agent.Synthesize(ctx, incident)

	// Проверки: сбой одной потребности не блокирует соседние
	require.Error(t, err)
	assert.ErrorContains(t, err, "Shelter")
	require.Len(t, missions, 2)
	assert.Equal(t, "Water Rescue - Flood Incident", missions[0].Name)
	assert.Equal(t, "Food Supplies - Flood Incident", missions[1].Name)

	// Сигнал перезагрузки отправлен несмотря на частичный сбой
	assert.True(t, events[len(events)-1].Reload)
}

func TestSynthesize_DuplicateInsertRace(t *testing.T) {
	// Подготовка
	agent, repoMock, enricherMock, broadcasterMock := newTestMissionAgent(t)
	ctx := context.Background()
	incident := testIncident([]string{"Water Rescue"})
	incidentID := incident.ID.String()
	name := "Water Rescue - Flood Incident"

	winner := &models.Mission{ID: "mission_1700000000000_abc123def", IncidentID: incidentID, Name: name}

	// Ожидания: проверка перед вставкой пуста, но вставка ловит нарушение
	// уникальности — конкурирующий вызов успел первым
	repoMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)
	first := repoMock.EXPECT().FindByIncidentAndName(ctx, incidentID, name).Return(nil, nil).Times(1)
	enricherMock.EXPECT().
		EnrichMission(ctx, incident, "Water Rescue").
		Return(ai.Enrichment{Description: "d", Reasoning: "r", ConfidenceScore: 0.85}).
		Times(1)
	repoMock.EXPECT().
		Insert(ctx, gomock.Any()).
		Return("", fmt.Errorf("repository: mission: %w", ErrDuplicateMission)).
		Times(1)
	repoMock.EXPECT().
		FindByIncidentAndName(ctx, incidentID, name).
		Return(winner, nil).
		Times(1).
		After(first)

	var events []broadcast.Event
	broadcasterMock.EXPECT().
		Broadcast(gomock.Any()).
		Do(func(e broadcast.Event) { events = append(events, e) }).
		Times(1)

	// Действие
	missions, err := agent.Synthesize(ctx, incident)

	// Проверки: проигравший забирает миссию победителя без ошибки
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Same(t, winner, missions[0])
	assert.True(t, events[0].Reload)
}

func TestOnIncidentUpdated_JustDispatched(t *testing.T) {
	// Подготовка
	agent, repoMock, enricherMock, broadcasterMock := newTestMissionAgent(t)
	ctx := context.Background()
	updated := testIncident([]string{"Medical Aid"})
	previous := testIncident([]string{"Medical Aid"})
	previous.Dispatched = false
	incidentID := updated.ID.String()

	var created *models.Mission

	// Ожидания: переход false -> true запускает синтез
	repoMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)
	repoMock.EXPECT().FindByIncidentAndName(ctx, incidentID, gomock.Any()).Return(nil, nil).Times(1)
	enricherMock.EXPECT().
		EnrichMission(ctx, updated, "Medical Aid").
		Return(ai.Enrichment{Description: "d", Reasoning: "r", ConfidenceScore: 0.85}).
		Times(1)
	repoMock.EXPECT().
		Insert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, m *models.Mission) (string, error) {
			created = m
			return m.ID, nil
		}).
		Times(1)
	repoMock.EXPECT().
		GetByID(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string) (*models.Mission, error) { return created, nil }).
		Times(1)
	broadcasterMock.EXPECT().Broadcast(gomock.Any()).Times(2)

	// Действие
	missions := agent.OnIncidentUpdated(ctx, updated, previous)

	// Проверки
	require.Len(t, missions, 1)
	assert.Equal(t, "Medical Aid - Flood Incident", missions[0].Name)
}

func TestOnIncidentUpdated_AlreadyDispatched(t *testing.T) {
	// Подготовка: инцидент был диспетчеризован и до обновления
	agent, _, _, _ := newTestMissionAgent(t)
	updated := testIncident(nil)
	previous := testIncident(nil)

	// Действие
	missions := agent.OnIncidentUpdated(context.Background(), updated, previous)

	// Проверки: повторного синтеза нет
	assert.Empty(t, missions)
}

func TestOnIncidentUpdated_NotDispatched(t *testing.T) {
	// Подготовка
	agent, _, _, _ := newTestMissionAgent(t)
	updated := testIncident(nil)
	updated.Dispatched = false

	// Действие
	missions := agent.OnIncidentUpdated(context.Background(), updated, nil)

	// Проверки
	assert.Empty(t, missions)
}

func TestOnIncidentUpdated_PreviousUnknown(t *testing.T) {
	// Подготовка: прежнее состояние прочитать не удалось — трактуем как переход
	agent, repoMock, enricherMock, broadcasterMock := newTestMissionAgent(t)
	ctx := context.Background()
	updated := testIncident([]string{"Shelter"})
	incidentID := updated.ID.String()

	var created *models.Mission

	// Ожидания
	repoMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)
	repoMock.EXPECT().FindByIncidentAndName(ctx, incidentID, gomock.Any()).Return(nil, nil).Times(1)
	enricherMock.EXPECT().
		EnrichMission(ctx, updated, "Shelter").
		Return(ai.Enrichment{Description: "d", Reasoning: "r", ConfidenceScore: 0.85}).
		Times(1)
	repoMock.EXPECT().
		Insert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, m *models.Mission) (string, error) {
			created = m
			return m.ID, nil
		}).
		Times(1)
	repoMock.EXPECT().
		GetByID(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string) (*models.Mission, error) { return created, nil }).
		Times(1)
	broadcasterMock.EXPECT().Broadcast(gomock.Any()).Times(2)

	// Действие
	missions := agent.OnIncidentUpdated(ctx, updated, nil)

	// Проверки
	require.Len(t, missions, 1)
}

func TestOnIncidentUpdated_SynthesisErrorSwallowed(t *testing.T) {
	// Подготовка: синтез падает на прекондиции, но вызов не возвращает ошибку
	agent, _, _, _ := newTestMissionAgent(t)
	updated := testIncident(nil)
	updated.Location = nil

	// Действие
	missions := agent.OnIncidentUpdated(context.Background(), updated, nil)

	// Проверки
	assert.NotNil(t, missions)
	assert.Empty(t, missions)
}

func TestDeterminePriority(t *testing.T) {
	tests := []struct {
		name     string
		incident *models.Incident
		want     string
	}{
		{"высокий по типу", &models.Incident{Type: "Fire", Status: models.IncidentStatusResolved}, models.MissionPriorityHigh},
		{"высокий по типу, газ", &models.Incident{Type: "Gas Leak", Status: models.IncidentStatusTriaged}, models.MissionPriorityHigh},
		{"средний по типу побеждает активный статус", &models.Incident{Type: "Flood", Status: models.IncidentStatusActive}, models.MissionPriorityMedium},
		{"средний по типу, землетрясение", &models.Incident{Type: "Earthquake", Status: models.IncidentStatusResolved}, models.MissionPriorityMedium},
		{"неизвестный тип, активный", &models.Incident{Type: "Traffic Accident", Status: models.IncidentStatusActive}, models.MissionPriorityHigh},
		{"неизвестный тип, неактивный", &models.Incident{Type: "Traffic Accident", Status: models.IncidentStatusResolved}, models.MissionPriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determinePriority(tt.incident))
		})
	}
}

func TestGenerateMissionID_Format(t *testing.T) {
	id := GenerateMissionID()

	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "mission", parts[0])
	assert.Len(t, parts[2], 9)

	// Идентификаторы уникальны между вызовами
	assert.NotEqual(t, id, GenerateMissionID())
}

func TestMissionName(t *testing.T) {
	assert.Equal(t, "Water Rescue - Flood Incident", MissionName("Water Rescue", "Flood"))
	assert.Equal(t, "General Response - Fire Incident", MissionName(models.DefaultNeed, "Fire"))
}
