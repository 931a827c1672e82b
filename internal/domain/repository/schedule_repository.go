package repository

import (
	"time"

	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// WorkDayRuleRepository define el puerto para la plantilla semanal de horario.
type WorkDayRuleRepository interface {
	// GetByDayOfWeek devuelve la regla del día de la semana (0=lunes..6=domingo), o nil si no existe.
	GetByDayOfWeek(dayOfWeek int) (*entity.WorkDayRule, error)
	List() ([]*entity.WorkDayRule, error)
	// Upsert crea o reemplaza la regla de un día de la semana (único por día).
	Upsert(rule *entity.WorkDayRule) error
}

// ScheduledDayRepository define el puerto para los días programados explícitos.
type ScheduledDayRepository interface {
	// GetByDate devuelve la configuración de la fecha exacta, o nil si no existe.
	GetByDate(date time.Time) (*entity.ScheduledDay, error)
	ListRange(from, to time.Time) ([]*entity.ScheduledDay, error)
	// Upsert crea o reemplaza la configuración de una fecha (única por fecha).
	Upsert(day *entity.ScheduledDay) error
	Delete(date time.Time) error
}
