package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/disaster_response_hub/internal/models"
	"github.com/shenikar/disaster_response_hub/internal/service/mocks"
)

// newTestSweeper — вспомогательная функция для создания агента с моками.
func newTestSweeper(t *testing.T) (*Sweeper, *mocks.MockIncidentRepository, *mocks.MockMissionRepository, *mocks.MockMissionSynthesizer) {
	ctrl := gomock.NewController(t)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)
	missionsMock := mocks.NewMockMissionRepository(ctrl)
	agentMock := mocks.NewMockMissionSynthesizer(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	sweeper := NewSweeper(incidentsMock, missionsMock, agentMock, logger)
	return sweeper, incidentsMock, missionsMock, agentMock
}

func dispatchedIncident(id string, needs []string) *models.Incident {
	return &models.Incident{
		ID:         models.ParseDocID(id),
		Type:       "Fire",
		Status:     models.IncidentStatusActive,
		Needs:      needs,
		Location:   &models.GeoPoint{Type: "Point", Coordinates: []float64{-122.4, 37.77}},
		Dispatched: true,
	}
}

func TestSweep_CreatesMissingMissions(t *testing.T) {
	// Подготовка
	sweeper, incidentsMock, missionsMock, agentMock := newTestSweeper(t)
	ctx := context.Background()
	incident := dispatchedIncident("65f1a2b3c4d5e6f708192a3b", []string{"Medical Aid"})
	incidentID := incident.ID.String()

	// Ожидания
	incidentsMock.EXPECT().List(ctx).Return([]*models.Incident{incident}, nil).Times(1)
	missionsMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)
	missionsMock.EXPECT().
		FindByIncidentAndName(ctx, incidentID, "Medical Aid - Fire Incident").
		Return(nil, nil).
		Times(1)
	agentMock.EXPECT().
		Synthesize(ctx, incident).
		Return([]*models.Mission{{ID: "mission_1_a", IncidentID: incidentID}}, nil).
		Times(1)

	// Действие
	summary, err := sweeper.Sweep(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Checked)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
	assert.False(t, summary.AlreadyRunning)
}

func TestSweep_SkipRules(t *testing.T) {
	// Подготовка: четыре инцидента, каждый попадает под свое правило пропуска
	sweeper, incidentsMock, missionsMock, _ := newTestSweeper(t)
	ctx := context.Background()

	noLocation := dispatchedIncident("65f1a2b3c4d5e6f708192a01", []string{"Shelter"})
	noLocation.Location = nil

	hasMissions := dispatchedIncident("65f1a2b3c4d5e6f708192a02", []string{"Shelter"})

	allNamed := dispatchedIncident("65f1a2b3c4d5e6f708192a03", []string{"Shelter"})

	// Не диспетчеризован и потребности не заданы явно — под опеку не попадает
	unqualified := dispatchedIncident("65f1a2b3c4d5e6f708192a04", nil)
	unqualified.Dispatched = false

	// Ожидания
	incidentsMock.EXPECT().
		List(ctx).
		Return([]*models.Incident{noLocation, hasMissions, allNamed, unqualified}, nil).
		Times(1)

	missionsMock.EXPECT().
		FindByIncident(ctx, hasMissions.ID.String()).
		Return([]*models.Mission{{ID: "mission_1_a"}}, nil).
		Times(1)

	missionsMock.EXPECT().
		FindByIncident(ctx, allNamed.ID.String()).
		Return([]*models.Mission{}, nil).
		Times(1)
	missionsMock.EXPECT().
		FindByIncidentAndName(ctx, allNamed.ID.String(), "Shelter - Fire Incident").
		Return(&models.Mission{ID: "mission_2_b"}, nil).
		Times(1)

	missionsMock.EXPECT().
		FindByIncident(ctx, unqualified.ID.String()).
		Return([]*models.Mission{}, nil).
		Times(1)
	missionsMock.EXPECT().
		FindByIncidentAndName(ctx, unqualified.ID.String(), "General Response - Fire Incident").
		Return(nil, nil).
		Times(1)

	// Действие
	summary, err := sweeper.Sweep(ctx)

	// Проверки: синтез не вызван ни разу
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Checked)
	assert.Equal(t, 4, summary.Skipped)
	assert.Equal(t, 0, summary.Created)
}

func TestSweep_UndispatchedWithExplicitNeedsQualifies(t *testing.T) {
	// Подготовка: фоновый агент мягче триггера на пути запроса — явные
	// потребности достаточны и без диспетчеризации
	sweeper, incidentsMock, missionsMock, agentMock := newTestSweeper(t)
	ctx := context.Background()
	incident := dispatchedIncident("65f1a2b3c4d5e6f708192a3b", []string{"Water Rescue"})
	incident.Dispatched = false
	incidentID := incident.ID.String()

	// Ожидания
	incidentsMock.EXPECT().List(ctx).Return([]*models.Incident{incident}, nil).Times(1)
	missionsMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)
	missionsMock.EXPECT().
		FindByIncidentAndName(ctx, incidentID, "Water Rescue - Fire Incident").
		Return(nil, nil).
		Times(1)
	agentMock.EXPECT().
		Synthesize(ctx, incident).
		Return([]*models.Mission{{ID: "mission_1_a"}}, nil).
		Times(1)

	// Действие
	summary, err := sweeper.Sweep(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
}

func TestSweep_ContinuesAfterIncidentError(t *testing.T) {
	// Подготовка: сбой одного инцидента не прерывает проход
	sweeper, incidentsMock, missionsMock, agentMock := newTestSweeper(t)
	ctx := context.Background()

	broken := dispatchedIncident("65f1a2b3c4d5e6f708192a01", []string{"Shelter"})
	healthy := dispatchedIncident("65f1a2b3c4d5e6f708192a02", []string{"Shelter"})

	// Ожидания
	incidentsMock.EXPECT().List(ctx).Return([]*models.Incident{broken, healthy}, nil).Times(1)

	missionsMock.EXPECT().
		FindByIncident(ctx, broken.ID.String()).
		Return(nil, fmt.Errorf("connection reset")).
		Times(1)

	missionsMock.EXPECT().
		FindByIncident(ctx, healthy.ID.String()).
		Return([]*models.Mission{}, nil).
		Times(1)
	missionsMock.EXPECT().
		FindByIncidentAndName(ctx, healthy.ID.String(), "Shelter - Fire Incident").
		Return(nil, nil).
		Times(1)
	agentMock.EXPECT().
		Synthesize(ctx, healthy).
		Return([]*models.Mission{{ID: "mission_1_a"}}, nil).
		Times(1)

	// Действие
	summary, err := sweeper.Sweep(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Checked)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Created)
}

func TestSweep_MutualExclusion(t *testing.T) {
	// Подготовка: первый проход блокируется внутри синтеза, второй должен
	// немедленно отчитаться already_running и ничего не записать
	sweeper, incidentsMock, missionsMock, agentMock := newTestSweeper(t)
	ctx := context.Background()
	incident := dispatchedIncident("65f1a2b3c4d5e6f708192a3b", []string{"Shelter"})
	incidentID := incident.ID.String()

	entered := make(chan struct{})
	release := make(chan struct{})

	// Ожидания
	incidentsMock.EXPECT().List(ctx).Return([]*models.Incident{incident}, nil).Times(1)
	missionsMock.EXPECT().FindByIncident(ctx, incidentID).Return([]*models.Mission{}, nil).Times(1)
	missionsMock.EXPECT().
		FindByIncidentAndName(ctx, incidentID, "Shelter - Fire Incident").
		Return(nil, nil).
		Times(1)
	agentMock.EXPECT().
		Synthesize(ctx, incident).
		DoAndReturn(func(context.Context, *models.Incident) ([]*models.Mission, error) {
			close(entered)
			<-release
			return []*models.Mission{{ID: "mission_1_a"}}, nil
		}).
		Times(1)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstSummary SweepSummary
	var firstErr error
	go func() {
		defer wg.Done()
		firstSummary, firstErr = sweeper.Sweep(ctx)
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first sweep did not reach synthesis")
	}

	// Действие: конкурирующий проход при удерживаемом семафоре
	second, err := sweeper.Sweep(ctx)

	// Проверки
	require.NoError(t, err)
	assert.True(t, second.AlreadyRunning)
	assert.Equal(t, 0, second.Checked)

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, 1, firstSummary.Created)
	assert.False(t, firstSummary.AlreadyRunning)
}

func TestSweeper_StartStopLifecycle(t *testing.T) {
	// Подготовка: каждый проход отмечается в канале
	sweeper, incidentsMock, _, _ := newTestSweeper(t)

	sweeps := make(chan struct{}, 32)
	incidentsMock.EXPECT().
		List(gomock.Any()).
		DoAndReturn(func(context.Context) ([]*models.Incident, error) {
			sweeps <- struct{}{}
			return []*models.Incident{}, nil
		}).
		AnyTimes()

	// Действие
	sweeper.Start(20 * time.Millisecond)

	// Проверки: первый проход стартует сразу, не дожидаясь таймера
	select {
	case <-sweeps:
	case <-time.After(time.Second):
		t.Fatal("immediate sweep did not happen")
	}

	// Следующий проход приходит по таймеру
	select {
	case <-sweeps:
	case <-time.After(time.Second):
		t.Fatal("periodic sweep did not happen")
	}

	// Повторный Start не порождает вторую горутину: иначе она пережила бы
	// единственный Stop и провалила бы проверку тишины ниже
	sweeper.Start(20 * time.Millisecond)

	// Остановка идемпотентна
	sweeper.Stop()
	sweeper.Stop()

	// Уже сработавший тик может доехать после Stop; даем ему завершиться
	// и опустошаем канал
	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case <-sweeps:
			continue
		default:
		}
		break
	}

	// Новых проходов после остановки нет
	select {
	case <-sweeps:
		t.Fatal("sweep happened after stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSweep_ListFailure(t *testing.T) {
	// Подготовка
	sweeper, incidentsMock, _, _ := newTestSweeper(t)
	ctx := context.Background()

	// Ожидания
	incidentsMock.EXPECT().List(ctx).Return(nil, fmt.Errorf("network unreachable")).Times(1)

	// Действие
	summary, err := sweeper.Sweep(ctx)

	// Проверки
	require.Error(t, err)
	assert.Equal(t, 0, summary.Checked)
}
