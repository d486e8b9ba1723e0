package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/ai"
	"github.com/shenikar/disaster_response_hub/internal/broadcast"
	"github.com/shenikar/disaster_response_hub/internal/models"
)

// MissionSynthesizer определяет контракт агента миссий: идемпотентный синтез
// полного набора миссий инцидента и реакция на диспетчеризацию
type MissionSynthesizer interface {
	Synthesize(ctx context.Context, incident *models.Incident) ([]*models.Mission, error)
	OnIncidentUpdated(ctx context.Context, updated, previous *models.Incident) []*models.Mission
}

// Типы инцидентов с фиксированным приоритетом. Классификация по типу всегда
// побеждает классификацию по статусу.
var (
	highPriorityTypes = map[string]struct{}{
		"Fire":              {},
		"Medical Emergency": {},
		"Building Collapse": {},
		"Gas Leak":          {},
		"Chemical Spill":    {},
	}
	mediumPriorityTypes = map[string]struct{}{
		"Power Outage":    {},
		"Flood":           {},
		"Earthquake":      {},
		"Bridge Collapse": {},
	}
)

// MissionAgent создает миссии по потребностям инцидента: ровно одну на
// каждое уникальное значение need, сколько бы раз и из скольких бы точек
// синтез ни вызывался
type MissionAgent struct {
	missions    MissionRepository
	enricher    ai.Enricher
	broadcaster broadcast.Broadcaster
	logger      *logrus.Logger
}

// NewMissionAgent создает агента миссий
func NewMissionAgent(missions MissionRepository, enricher ai.Enricher, broadcaster broadcast.Broadcaster, logger *logrus.Logger) *MissionAgent {
	return &MissionAgent{
		missions:    missions,
		enricher:    enricher,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Synthesize приводит набор миссий инцидента к полному: по миссии на каждую
// потребность. Повторный вызов для уже укомплектованного инцидента — no-op.
// Сбой на одной потребности не откатывает и не блокирует остальные; частичный
// результат возвращается вместе с ошибкой.
func (a *MissionAgent) Synthesize(ctx context.Context, incident *models.Incident) ([]*models.Mission, error) {
	log := a.logger.WithFields(logrus.Fields{
		"service":     "mission_agent",
		"method":      "Synthesize",
		"incident_id": incident.ID.String(),
	})

	if incident.Location == nil {
		log.Warn("Incident has no location, refusing to synthesize missions")
		return nil, fmt.Errorf("mission agent: %w", ErrMissingLocation)
	}

	incidentID := incident.ID.String()

	// Предварительная проверка существования — только для наблюдаемости:
	// дедупликацию обеспечивает проверка по имени внутри цикла
	if existing, err := a.missions.FindByIncident(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to query existing missions, proceeding to per-need check")
	} else if len(existing) > 0 {
		log.WithField("existing", len(existing)).Info("Missions already exist for incident, filling gaps only")
	}

	needs := resolveNeeds(incident)
	priority := determinePriority(incident)
	now := time.Now().UTC()

	log.WithFields(logrus.Fields{"needs": needs, "priority": priority}).Info("Synthesizing missions")

	missions := make([]*models.Mission, 0, len(needs))
	var needErrs []error

	for _, need := range needs {
		mission, err := a.synthesizeNeed(ctx, incident, incidentID, need, priority, now)
		if err != nil {
			log.WithError(err).WithField("need", need).Error("Failed to create mission for need")
			needErrs = append(needErrs, fmt.Errorf("need %q: %w", need, err))
			continue
		}
		missions = append(missions, mission)
	}

	// Сигнал полной перезагрузки ровно один раз на вызов синтеза, даже если
	// все потребности оказались дубликатами: клиенты остаются консистентными
	a.broadcaster.Broadcast(broadcast.ReloadEvent())

	if len(needErrs) > 0 {
		return missions, fmt.Errorf("mission agent: mission generation failed for incident %s: %w",
			incidentID, errors.Join(needErrs...))
	}

	log.WithField("count", len(missions)).Info("Mission synthesis complete")
	return missions, nil
}

// synthesizeNeed создает (или возвращает уже существующую) миссию одной потребности
func (a *MissionAgent) synthesizeNeed(ctx context.Context, incident *models.Incident, incidentID, need, priority string, now time.Time) (*models.Mission, error) {
	log := a.logger.WithFields(logrus.Fields{
		"service":     "mission_agent",
		"incident_id": incidentID,
		"need":        need,
	})

	name := MissionName(need, incident.Type)

	// Проверка по имени непосредственно перед вставкой: именно она делает
	// конкурирующие вызовы синтеза безопасными
	if existing, err := a.missions.FindByIncidentAndName(ctx, incidentID, name); err != nil {
		return nil, fmt.Errorf("lookup existing mission: %w", err)
	} else if existing != nil {
		log.WithField("mission_id", existing.ID).Info("Mission already exists, reusing")
		return existing, nil
	}

	enrichment := a.enricher.EnrichMission(ctx, incident, need)

	mission := &models.Mission{
		ID:                GenerateMissionID(),
		IncidentID:        incidentID,
		VolunteerID:       nil,
		AssignedResources: []string{},
		WorkflowStep:      models.MissionWorkflowCreated,
		Priority:          priority,
		CommsChannel:      commsChannel(incidentID),
		Location:          incident.Location,
		Name:              name,
		Description:       enrichment.Description,
		Status:            models.MissionStatusPending,
		Timeline:          models.MissionTimeline{CreatedAt: now},
		AIMetadata: models.MissionAIMetadata{
			ConfidenceScore: enrichment.ConfidenceScore,
			MatchReasoning:  enrichment.Reasoning,
		},
	}

	insertedID, err := a.missions.Insert(ctx, mission)
	if err != nil {
		// Нарушение уникальности (incident_id, name) означает, что миссию
		// только что создал конкурирующий вызов — забираем её
		if errors.Is(err, ErrDuplicateMission) {
			if existing, ferr := a.missions.FindByIncidentAndName(ctx, incidentID, name); ferr == nil && existing != nil {
				log.WithField("mission_id", existing.ID).Info("Lost insert race, reusing mission created by concurrent call")
				return existing, nil
			}
		}
		return nil, fmt.Errorf("insert mission: %w", err)
	}

	// Эху insertedId не доверяем вслепую: строковые идентификаторы могут не
	// пройти round-trip на всех реализациях хранилища — подтверждаем чтением
	persisted, err := a.reRead(ctx, mission.ID, insertedID, incidentID, name)
	if err != nil {
		return nil, err
	}

	event := broadcast.NewEvent(broadcast.EventMissionCreated, persisted)
	a.broadcaster.Broadcast(event)

	log.WithField("mission_id", persisted.ID).Info("Mission created")
	return persisted, nil
}

// reRead подтверждает вставку повторным чтением, пробуя наш идентификатор,
// эхо хранилища и ключ дедупликации
func (a *MissionAgent) reRead(ctx context.Context, missionID, insertedID, incidentID, name string) (*models.Mission, error) {
	persisted, err := a.missions.GetByID(ctx, missionID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("re-read mission: %w", err)
	}
	if persisted == nil && insertedID != "" && insertedID != missionID {
		persisted, err = a.missions.GetByID(ctx, insertedID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("re-read mission by inserted id: %w", err)
		}
	}
	if persisted == nil {
		persisted, err = a.missions.FindByIncidentAndName(ctx, incidentID, name)
		if err != nil {
			return nil, fmt.Errorf("re-read mission by name: %w", err)
		}
	}
	if persisted == nil {
		return nil, fmt.Errorf("mission %s: %w", missionID, ErrMissionNotFoundAfterInsert)
	}
	return persisted, nil
}

// OnIncidentUpdated вызывает синтез ровно один раз на переход инцидента в
// состояние dispatched. Ошибки синтеза глотаются: создание миссий не должно
// ломать цикл запрос-ответ обновления инцидента.
func (a *MissionAgent) OnIncidentUpdated(ctx context.Context, updated, previous *models.Incident) []*models.Mission {
	log := a.logger.WithFields(logrus.Fields{
		"service":     "mission_agent",
		"method":      "OnIncidentUpdated",
		"incident_id": updated.ID.String(),
	})

	// Отсутствие прежнего состояния трактуется как переход: ложное
	// срабатывание безопасно благодаря идемпотентности синтеза, пропуск — нет
	wasJustDispatched := updated.Dispatched && (previous == nil || !previous.Dispatched)
	if !wasJustDispatched {
		log.Debug("Incident was not just dispatched, skipping mission creation")
		return []*models.Mission{}
	}

	log.Info("Incident was just dispatched, creating missions")
	missions, err := a.Synthesize(ctx, updated)
	if err != nil {
		log.WithError(err).Error("Mission synthesis after dispatch failed")
	}
	if missions == nil {
		missions = []*models.Mission{}
	}
	return missions
}

// MissionName строит детерминированное имя миссии — фактический ключ
// дедупликации в рамках инцидента
func MissionName(need, incidentType string) string {
	return fmt.Sprintf("%s - %s Incident", need, incidentType)
}

// GenerateMissionID генерирует уникальный, сортируемый по времени идентификатор миссии
func GenerateMissionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("mission_%d_%s", time.Now().UnixMilli(), suffix)
}

// resolveNeeds возвращает рабочий список потребностей инцидента
func resolveNeeds(incident *models.Incident) []string {
	if len(incident.Needs) > 0 {
		return incident.Needs
	}
	return []string{models.DefaultNeed}
}

// determinePriority выводит приоритет уровня инцидента
func determinePriority(incident *models.Incident) string {
	if _, ok := highPriorityTypes[incident.Type]; ok {
		return models.MissionPriorityHigh
	}
	if _, ok := mediumPriorityTypes[incident.Type]; ok {
		return models.MissionPriorityMedium
	}
	if incident.Status == models.IncidentStatusActive {
		return models.MissionPriorityHigh
	}
	return models.MissionPriorityMedium
}

func commsChannel(incidentID string) string {
	if len(incidentID) > 8 {
		incidentID = incidentID[:8]
	}
	return "Incident_" + incidentID
}
