package service

import "errors"

// Ошибки уровня сервисов. Проверяются через errors.Is.
var (
	// ErrNotFound — документ не найден ни в одной форме идентификатора
	ErrNotFound = errors.New("not found")

	// ErrMissingLocation — предусловие синтеза: у инцидента нет локации.
	// Сигнал о проблемах качества данных выше по потоку, не ретраится.
	ErrMissingLocation = errors.New("incident has no location")

	// ErrInsertNotAcknowledged — вставка миссии не подтверждена хранилищем
	ErrInsertNotAcknowledged = errors.New("mission insert was not acknowledged")

	// ErrDuplicateMission — нарушение уникальности (incident_id, name):
	// миссию уже создал конкурирующий вызов синтеза
	ErrDuplicateMission = errors.New("mission already exists")

	// ErrMissionNotFoundAfterInsert — вставка прошла, но повторное чтение
	// миссию не нашло; возвращать неподтвержденную запись нельзя
	ErrMissionNotFoundAfterInsert = errors.New("mission not found after insert")
)
