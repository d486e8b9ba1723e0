package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/shenikar/disaster_response_hub/internal/models"
)

// SweepSummary — итог одного прохода фонового агента
type SweepSummary struct {
	Checked        int           `json:"checked"`
	Created        int           `json:"created"`
	Skipped        int           `json:"skipped"`
	Errors         int           `json:"errors"`
	Duration       time.Duration `json:"duration_ms"`
	AlreadyRunning bool          `json:"already_running,omitempty"`
}

// Sweeper периодически сверяет инциденты с их миссиями и досоздает недостающие:
// страховка от падения процесса между обновлением инцидента и созданием миссий
// и от инцидентов с потребностями, которые никто не диспетчеризовал
type Sweeper struct {
	incidents IncidentRepository
	missions  MissionRepository
	agent     MissionSynthesizer
	logger    *logrus.Logger

	// Одновременно выполняется не больше одного прохода; повторный запрос
	// не встает в очередь, а сразу отчитывается already_running
	running *semaphore.Weighted

	mu     sync.Mutex
	stopCh chan struct{}
}

// NewSweeper создает фоновый агент
func NewSweeper(incidents IncidentRepository, missions MissionRepository, agent MissionSynthesizer, logger *logrus.Logger) *Sweeper {
	return &Sweeper{
		incidents: incidents,
		missions:  missions,
		agent:     agent,
		logger:    logger,
		running:   semaphore.NewWeighted(1),
	}
}

// Sweep выполняет один полный проход по всем инцидентам
func (s *Sweeper) Sweep(ctx context.Context) (SweepSummary, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "sweeper", "method": "Sweep"})

	if !s.running.TryAcquire(1) {
		log.Info("Sweep already in progress, skipping this cycle")
		return SweepSummary{AlreadyRunning: true}, nil
	}
	defer s.running.Release(1)

	start := time.Now()
	log.Info("Starting mission sweep")

	incidents, err := s.incidents.List(ctx)
	if err != nil {
		return SweepSummary{Duration: time.Since(start)}, fmt.Errorf("sweeper: could not list incidents: %w", err)
	}

	var summary SweepSummary
	for _, incident := range incidents {
		summary.Checked++

		created, skipped, err := s.sweepIncident(ctx, incident)
		if err != nil {
			summary.Errors++
			log.WithError(err).WithField("incident_id", incident.ID.String()).
				Error("Failed to process incident during sweep")
			continue
		}
		if skipped {
			summary.Skipped++
			continue
		}
		summary.Created += created
	}

	summary.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"checked":  summary.Checked,
		"created":  summary.Created,
		"skipped":  summary.Skipped,
		"errors":   summary.Errors,
		"duration": summary.Duration,
	}).Info("Mission sweep complete")

	return summary, nil
}

// sweepIncident решает, нужен ли инциденту синтез, и запускает его.
// Возвращает (создано миссий, пропущен, ошибка).
func (s *Sweeper) sweepIncident(ctx context.Context, incident *models.Incident) (int, bool, error) {
	if incident.Location == nil {
		return 0, true, nil
	}

	incidentID := incident.ID.String()

	// Дешевый предфильтр: есть хоть одна миссия — инцидент уже обработан
	existing, err := s.missions.FindByIncident(ctx, incidentID)
	if err != nil {
		return 0, false, fmt.Errorf("find missions: %w", err)
	}
	if len(existing) > 0 {
		return 0, true, nil
	}

	// Более дорогая проверка по именам терпит частично созданные наборы
	needs := resolveNeeds(incident)
	allExist := true
	for _, need := range needs {
		mission, err := s.missions.FindByIncidentAndName(ctx, incidentID, MissionName(need, incident.Type))
		if err != nil {
			return 0, false, fmt.Errorf("find mission by name: %w", err)
		}
		if mission == nil {
			allExist = false
			break
		}
	}
	if allExist {
		return 0, true, nil
	}

	if !qualifiesForSweep(incident, needs) {
		return 0, true, nil
	}

	missions, err := s.agent.Synthesize(ctx, incident)
	if err != nil {
		return len(missions), false, err
	}
	return len(missions), false, nil
}

// qualifiesForSweep: инцидент диспетчеризован ИЛИ имеет явно указанные
// потребности, даже если его никто не диспетчеризовал. Вторая ветка шире
// правила триггера на пути запроса — это намеренная мягкость фонового
// агента, а не унификация правил.
func qualifiesForSweep(incident *models.Incident, needs []string) bool {
	if incident.Dispatched {
		return true
	}
	return len(needs) > 0 && needs[0] != models.DefaultNeed
}

// Start запускает периодические проходы: первый — немедленно, далее по таймеру
func (s *Sweeper) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		s.logger.Warn("Sweeper already started")
		return
	}
	s.stopCh = make(chan struct{})

	s.logger.Infof("Starting background sweeper, interval %v", interval)
	go s.run(interval, s.stopCh)
}

func (s *Sweeper) run(interval time.Duration, stopCh chan struct{}) {
	if _, err := s.Sweep(context.Background()); err != nil {
		s.logger.WithError(err).Error("Initial sweep failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			s.logger.Info("Background sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(context.Background()); err != nil {
				s.logger.WithError(err).Error("Periodic sweep failed")
			}
		}
	}
}

// Stop останавливает таймер; уже идущий проход завершается сам
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}
