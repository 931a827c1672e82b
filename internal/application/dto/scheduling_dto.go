package dto

// BookingRequest body para POST /api/appointments (solicitud pública de cita).
// Los datos de contacto crean o actualizan el registro de cliente antes de reservar.
type BookingRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"` // "2006-01-02"
	Time      string `json:"time"` // "HH:MM", opcional
	Notes     string `json:"notes,omitempty"`

	Name        string `json:"name"`
	DNI         string `json:"dni"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address,omitempty"`
	StaffID     string `json:"staff_id,omitempty"`
}

// RescheduleRequest body para PUT /api/appointments/:id (cambio de fecha/hora).
type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

// AppointmentResponse representación de una cita en respuestas.
type AppointmentResponse struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	ServiceID string `json:"service_id"`
	StaffID   string `json:"staff_id,omitempty"`
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
}

// SweepResponse resultado de la pasada de vencimiento.
type SweepResponse struct {
	Cancelled int `json:"cancelled"`
}

// DayScheduleResponse horario resuelto de una fecha.
type DayScheduleResponse struct {
	Date       string `json:"date"`
	Configured bool   `json:"configured"`
	IsWorking  bool   `json:"is_working"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
}

// WorkDayRuleRequest body para configurar la plantilla semanal.
type WorkDayRuleRequest struct {
	DayOfWeek    int    `json:"day_of_week"` // 0=lunes .. 6=domingo
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	IsWorkingDay bool   `json:"is_working_day"`
}

// ScheduledDayRequest body para configurar una fecha puntual.
type ScheduledDayRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	IsWorking bool   `json:"is_working"`
	Notes     string `json:"notes,omitempty"`
}
