package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// ScheduleAdmin administra la configuración del calendario laboral: la plantilla
// semanal y los días programados puntuales.
type ScheduleAdmin struct {
	workDayRepo      repository.WorkDayRuleRepository
	scheduledDayRepo repository.ScheduledDayRepository
	calendar         *CalendarResolver
}

// NewScheduleAdmin construye el administrador de calendario.
func NewScheduleAdmin(
	workDayRepo repository.WorkDayRuleRepository,
	scheduledDayRepo repository.ScheduledDayRepository,
	calendar *CalendarResolver,
) *ScheduleAdmin {
	return &ScheduleAdmin{
		workDayRepo:      workDayRepo,
		scheduledDayRepo: scheduledDayRepo,
		calendar:         calendar,
	}
}

// UpsertWorkDayRule crea o reemplaza la regla de un día de la semana (0=lunes..6=domingo).
func (a *ScheduleAdmin) UpsertWorkDayRule(ctx context.Context, rule *entity.WorkDayRule) error {
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return domain.ErrInvalidInput
	}
	if rule.StartTime != nil && rule.EndTime != nil && !rule.StartTime.Before(*rule.EndTime) {
		return domain.ErrInvalidInput
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	return a.workDayRepo.Upsert(rule)
}

// ListWorkDayRules devuelve la plantilla semanal completa.
func (a *ScheduleAdmin) ListWorkDayRules(ctx context.Context) ([]*entity.WorkDayRule, error) {
	return a.workDayRepo.List()
}

// UpsertScheduledDay crea o reemplaza la configuración explícita de una fecha,
// que prevalece sobre la plantilla semanal.
func (a *ScheduleAdmin) UpsertScheduledDay(ctx context.Context, day *entity.ScheduledDay) error {
	if day.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	if day.StartTime != nil && day.EndTime != nil && !day.StartTime.Before(*day.EndTime) {
		return domain.ErrInvalidInput
	}
	day.Date = DateOnly(day.Date)
	if day.ID == "" {
		day.ID = uuid.New().String()
	}
	return a.scheduledDayRepo.Upsert(day)
}

// ListScheduledDays devuelve los días programados dentro de [from, to].
func (a *ScheduleAdmin) ListScheduledDays(ctx context.Context, from, to time.Time) ([]*entity.ScheduledDay, error) {
	return a.scheduledDayRepo.ListRange(DateOnly(from), DateOnly(to))
}

// DeleteScheduledDay elimina la configuración explícita de una fecha; la fecha
// vuelve a regirse por la plantilla semanal.
func (a *ScheduleAdmin) DeleteScheduledDay(ctx context.Context, date time.Time) error {
	return a.scheduledDayRepo.Delete(DateOnly(date))
}

// ResolveDay expone la resolución de horario de una fecha (consulta del calendario
// público).
func (a *ScheduleAdmin) ResolveDay(ctx context.Context, date time.Time) (entity.DaySchedule, error) {
	return a.calendar.Resolve(date)
}
