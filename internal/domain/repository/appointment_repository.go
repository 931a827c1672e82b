package repository

import (
	"time"

	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
)

// AppointmentRepository define el puerto de persistencia para citas.
type AppointmentRepository interface {
	Create(appointment *entity.Appointment) error
	GetByID(id string) (*entity.Appointment, error)
	Update(appointment *entity.Appointment) error
	// LockDate serializa el acceso al conjunto de citas de una fecha (advisory
	// lock transaccional). Dentro de una transacción, garantiza que el par
	// conteo-de-cupo + inserción sea atómico frente a reservas concurrentes,
	// incluso sobre fechas que aún no tienen citas.
	LockDate(date time.Time) error
	// CountActiveOnDate cuenta las citas pending/confirmed de la fecha,
	// excluyendo excludingID si no es vacío (para ediciones).
	CountActiveOnDate(date time.Time, excludingID string) (int, error)
	// ListPendingInRange lista citas pending con fecha dentro de [from, to],
	// para la pasada de vencimiento.
	ListPendingInRange(from, to time.Time) ([]*entity.Appointment, error)
	ListByDate(date time.Time) ([]*entity.Appointment, error)
	ListByClient(clientID string) ([]*entity.Appointment, error)
	List(limit, offset int) ([]*entity.Appointment, error)
}
