package scheduling

import (
	"time"

	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// CalendarResolver resuelve el horario laboral de una fecha concreta.
// Orden de resolución: (1) configuración explícita de la fecha (ScheduledDay),
// (2) plantilla semanal (WorkDayRule) por día de la semana, (3) no configurado.
// Lectura pura, sin efectos.
type CalendarResolver struct {
	scheduledDayRepo repository.ScheduledDayRepository
	workDayRepo      repository.WorkDayRuleRepository
}

// NewCalendarResolver construye el resolutor de calendario.
func NewCalendarResolver(scheduledDayRepo repository.ScheduledDayRepository, workDayRepo repository.WorkDayRuleRepository) *CalendarResolver {
	return &CalendarResolver{scheduledDayRepo: scheduledDayRepo, workDayRepo: workDayRepo}
}

// Resolve devuelve el horario de la fecha. Configured=false significa que ni la
// fecha ni su día de la semana tienen configuración (reserva rechazada).
func (r *CalendarResolver) Resolve(date time.Time) (entity.DaySchedule, error) {
	day, err := r.scheduledDayRepo.GetByDate(DateOnly(date))
	if err != nil {
		return entity.DaySchedule{}, err
	}
	if day != nil {
		return entity.DaySchedule{
			Configured: true,
			IsWorking:  day.IsWorking,
			StartTime:  day.StartTime,
			EndTime:    day.EndTime,
		}, nil
	}

	rule, err := r.workDayRepo.GetByDayOfWeek(DayOfWeek(date))
	if err != nil {
		return entity.DaySchedule{}, err
	}
	if rule != nil {
		return entity.DaySchedule{
			Configured: true,
			IsWorking:  rule.IsWorkingDay,
			StartTime:  rule.StartTime,
			EndTime:    rule.EndTime,
		}, nil
	}

	return entity.DaySchedule{Configured: false}, nil
}

// DateOnly trunca un instante a su fecha calendario (medianoche local).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayOfWeek devuelve el día de la semana con lunes=0 ... domingo=6, el esquema de
// la plantilla semanal.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
