package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/decoracionesmori/gestion-api/internal/application/notify"
	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
	"github.com/decoracionesmori/gestion-api/pkg/config"
)

// SchedulingService orquesta la admisión, edición y cancelación de citas contra el
// calendario laboral y el cupo diario. Toda mutación corre dentro de una transacción
// que serializa el conjunto de citas de la fecha (bloqueo de fila).
type SchedulingService struct {
	cfg      config.SchedulingConfig
	calendar *CalendarResolver
	txRunner TxRunner
	apptRepo repository.AppointmentRepository
	svcRepo  repository.ServiceRepository
	notifier notify.Notifier
	log      zerolog.Logger

	// Now permite fijar el reloj en tests; por defecto time.Now.
	Now func() time.Time
}

// NewSchedulingService construye el servicio de agenda.
func NewSchedulingService(
	cfg config.SchedulingConfig,
	calendar *CalendarResolver,
	txRunner TxRunner,
	apptRepo repository.AppointmentRepository,
	svcRepo repository.ServiceRepository,
	notifier notify.Notifier,
	log zerolog.Logger,
) *SchedulingService {
	return &SchedulingService{
		cfg:      cfg,
		calendar: calendar,
		txRunner: txRunner,
		apptRepo: apptRepo,
		svcRepo:  svcRepo,
		notifier: notifier,
		log:      log,
		Now:      time.Now,
	}
}

// BookingInput entrada para reservar una cita.
type BookingInput struct {
	ClientID  string
	ServiceID string
	StaffID   string
	Date      time.Time
	Time      *entity.TimeOfDay
	Notes     string
}

// Actor identifica a quien ejecuta una operación sobre una cita.
type Actor struct {
	UserID   string
	ClientID string
	IsStaff  bool
}

// ValidateBooking ejecuta las validaciones de admisión en orden, cortando en la
// primera falla: anticipación mínima, día configurado, día laborable, cupo diario
// (excluyendo excludingID en ediciones) y rango horario. apptRepo debe ser el
// repositorio atado a la transacción cuando se valida dentro de una reserva.
func (s *SchedulingService) ValidateBooking(apptRepo repository.AppointmentRepository, date time.Time, t *entity.TimeOfDay, excludingID string) error {
	date = DateOnly(date)
	minDate := DateOnly(s.Now()).AddDate(0, 0, s.cfg.MinLeadDays)
	if date.Before(minDate) {
		return domain.ErrPastOrTooSoon
	}

	day, err := s.calendar.Resolve(date)
	if err != nil {
		return err
	}
	if !day.Configured {
		return domain.ErrNoSchedule
	}
	if !day.IsWorking {
		return domain.ErrNonWorkingDay
	}

	count, err := apptRepo.CountActiveOnDate(date, excludingID)
	if err != nil {
		return err
	}
	if count >= s.cfg.DailyQuota {
		return domain.ErrQuotaExceeded
	}

	if t != nil && !day.WithinHours(*t) {
		return domain.ErrOutsideHours
	}
	return nil
}

// Book valida la solicitud y persiste la cita en estado pending. El bloqueo de la
// fecha y la validación de cupo ocurren en la misma transacción que la inserción,
// de modo que dos solicitudes simultáneas por el último cupo no puedan ambas pasar.
func (s *SchedulingService) Book(ctx context.Context, in BookingInput) (*entity.Appointment, error) {
	if in.ClientID == "" || in.ServiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	svc, err := s.svcRepo.GetByID(in.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}

	appt := &entity.Appointment{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		ServiceID: in.ServiceID,
		StaffID:   in.StaffID,
		Date:      DateOnly(in.Date),
		Time:      in.Time,
		Status:    entity.AppointmentPending,
		Notes:     in.Notes,
		CreatedAt: s.Now(),
	}

	err = s.txRunner.Run(ctx, func(apptRepo repository.AppointmentRepository) error {
		if err := apptRepo.LockDate(appt.Date); err != nil {
			return err
		}
		if err := s.ValidateBooking(apptRepo, appt.Date, appt.Time, ""); err != nil {
			return err
		}
		return apptRepo.Create(appt)
	})
	if err != nil {
		return nil, err
	}

	s.send(ctx, notify.EventReceivedBooking, notify.Payload{
		"appointment_id": appt.ID,
		"client_id":      appt.ClientID,
		"date":           appt.Date.Format("2006-01-02"),
	})
	return appt, nil
}

// Reschedule cambia fecha/hora de una cita existente aplicando las mismas
// validaciones que la reserva, excluyendo a la propia cita del conteo de cupo.
func (s *SchedulingService) Reschedule(ctx context.Context, id string, date time.Time, t *entity.TimeOfDay) (*entity.Appointment, error) {
	var updated *entity.Appointment
	err := s.txRunner.Run(ctx, func(apptRepo repository.AppointmentRepository) error {
		appt, err := apptRepo.GetByID(id)
		if err != nil {
			return err
		}
		if appt == nil {
			return domain.ErrNotFound
		}
		if appt.IsTerminal() {
			return domain.ErrNotCancellable
		}
		newDate := DateOnly(date)
		if err := apptRepo.LockDate(newDate); err != nil {
			return err
		}
		if err := s.ValidateBooking(apptRepo, newDate, t, appt.ID); err != nil {
			return err
		}
		appt.Date = newDate
		appt.Time = t
		if err := apptRepo.Update(appt); err != nil {
			return err
		}
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel cancela una cita. Solo el cliente dueño o el personal pueden cancelar, y
// solo citas pending o confirmed admiten cancelación.
func (s *SchedulingService) Cancel(ctx context.Context, id string, actor Actor) error {
	var cancelled *entity.Appointment
	err := s.txRunner.Run(ctx, func(apptRepo repository.AppointmentRepository) error {
		appt, err := apptRepo.GetByID(id)
		if err != nil {
			return err
		}
		if appt == nil {
			return domain.ErrNotFound
		}
		if !actor.IsStaff && actor.ClientID != appt.ClientID {
			return domain.ErrForbidden
		}
		if !appt.CountsAgainstQuota() {
			return domain.ErrNotCancellable
		}
		appt.Status = entity.AppointmentCancelled
		if err := apptRepo.Update(appt); err != nil {
			return err
		}
		cancelled = appt
		return nil
	})
	if err != nil {
		return err
	}

	s.send(ctx, notify.EventCancelled, notify.Payload{
		"appointment_id": cancelled.ID,
		"client_id":      cancelled.ClientID,
		"date":           cancelled.Date.Format("2006-01-02"),
	})
	return nil
}

// GetByID devuelve una cita por ID.
func (s *SchedulingService) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	appt, err := s.apptRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, domain.ErrNotFound
	}
	return appt, nil
}

// List devuelve citas paginadas (listados administrativos).
func (s *SchedulingService) List(ctx context.Context, limit, offset int) ([]*entity.Appointment, error) {
	return s.apptRepo.List(limit, offset)
}

// ListByClient devuelve las citas de un cliente.
func (s *SchedulingService) ListByClient(ctx context.Context, clientID string) ([]*entity.Appointment, error) {
	return s.apptRepo.ListByClient(clientID)
}

// send notifica un evento sin bloquear la transición: un fallo del colaborador se
// registra como warning y se descarta.
func (s *SchedulingService) send(ctx context.Context, event notify.Event, payload notify.Payload) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", string(event)).Msg("fallo al enviar notificación")
	}
}
