package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// endOfDay es la hora asumida para citas sin hora explícita al calcular el vencimiento.
var endOfDay = entity.TimeOfDay{Hour: 23, Minute: 59}

// SweepExpired recorre las citas pending dentro de la ventana configurada y cancela
// las que pasaron su plazo de confirmación (fecha/hora de la cita menos ExpiryHours).
// Deja una nota de auditoría con los instantes del cómputo y devuelve cuántas canceló.
//
// Es idempotente: una segunda pasada sobre los mismos datos no cancela nada más,
// porque el filtro solo considera citas pending. Se invoca oportunistamente desde el
// listado administrativo y también como acción manual explícita; ambas rutas llaman
// aquí.
func (s *SchedulingService) SweepExpired(ctx context.Context) (int, error) {
	now := s.Now()
	from := DateOnly(now.AddDate(0, 0, -s.cfg.SweepBackDays))
	to := DateOnly(now.AddDate(0, 0, s.cfg.SweepForwardDays))

	cancelled := 0
	err := s.txRunner.Run(ctx, func(apptRepo repository.AppointmentRepository) error {
		pending, err := apptRepo.ListPendingInRange(from, to)
		if err != nil {
			return err
		}
		for _, appt := range pending {
			deadline := s.expiryDeadline(appt)
			if !now.After(deadline) {
				continue
			}
			appt.Status = entity.AppointmentCancelled
			appt.Notes = appt.Notes + fmt.Sprintf(
				"\n[AUTO] Cancelada el %s. Deadline era: %s",
				now.Format("02/01 15:04"), deadline.Format("02/01 15:04"),
			)
			if err := apptRepo.Update(appt); err != nil {
				return err
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if cancelled > 0 {
		s.log.Info().Int("cancelled", cancelled).Msg("citas pendientes vencidas canceladas")
	}
	return cancelled, nil
}

// expiryDeadline calcula el plazo de una cita: su fecha/hora (o fin del día si no
// tiene hora) menos las horas de vencimiento configuradas.
func (s *SchedulingService) expiryDeadline(appt *entity.Appointment) time.Time {
	t := endOfDay
	if appt.Time != nil {
		t = *appt.Time
	}
	return t.At(appt.Date).Add(-time.Duration(s.cfg.ExpiryHours) * time.Hour)
}
