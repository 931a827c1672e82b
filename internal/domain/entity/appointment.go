package entity

import "time"

// Estados de una cita.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment representa una cita agendada por un cliente para un servicio.
// Las citas en estado pending o confirmed cuentan contra el cupo diario.
type Appointment struct {
	ID        string
	ClientID  string
	ServiceID string
	StaffID   string // opcional: personal asignado
	Date      time.Time
	Time      *TimeOfDay // opcional: sin hora cuenta como fin del día para el vencimiento
	Status    string
	Notes     string
	CreatedAt time.Time
}

// CountsAgainstQuota reporta si la cita ocupa un cupo del día (pending o confirmed).
func (a *Appointment) CountsAgainstQuota() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentConfirmed
}

// IsTerminal reporta si la cita está en un estado final (completed o cancelled).
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentCompleted || a.Status == AppointmentCancelled
}
