package entity

import (
	"fmt"
	"time"
)

// TimeOfDay representa una hora del día (sin fecha ni zona horaria).
// Se serializa como "HH:MM" tanto en JSON como en la base de datos.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parsea "HH:MM" (formato 24 horas).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("hora inválida %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("hora fuera de rango: %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// String devuelve la hora en formato "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes devuelve los minutos transcurridos desde medianoche.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reporta si t es estrictamente anterior a u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

// At combina la hora con una fecha calendario en la zona horaria de date.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// MarshalText implementa encoding.TextMarshaler ("HH:MM" en JSON).
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implementa encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// WorkDayRule es la plantilla semanal de horario laboral: una entrada por día de la
// semana (0 = lunes ... 6 = domingo, como en la configuración original).
type WorkDayRule struct {
	ID           string
	DayOfWeek    int
	StartTime    *TimeOfDay
	EndTime      *TimeOfDay
	IsWorkingDay bool
}

// ScheduledDay es la configuración explícita de una fecha puntual del calendario.
// Cuando existe, tiene prioridad sobre la plantilla semanal para esa fecha.
type ScheduledDay struct {
	ID        string
	Date      time.Time // solo la parte de fecha es significativa
	StartTime *TimeOfDay
	EndTime   *TimeOfDay
	IsWorking bool
	Notes     string
}

// DaySchedule es el resultado de resolver el horario de una fecha concreta.
// Configured=false indica que ni la fecha ni su día de la semana tienen configuración.
type DaySchedule struct {
	Configured bool
	IsWorking  bool
	StartTime  *TimeOfDay
	EndTime    *TimeOfDay
}

// WithinHours reporta si la hora cae dentro de [StartTime, EndTime).
// Si el día no define horas, cualquier hora es válida.
func (d DaySchedule) WithinHours(t TimeOfDay) bool {
	if d.StartTime == nil || d.EndTime == nil {
		return true
	}
	return !t.Before(*d.StartTime) && t.Before(*d.EndTime)
}
