package scheduling

import (
	"context"

	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de citas atado a esa tx. Garantiza que el par conteo-de-cupo +
// inserción sea atómico frente a reservas concurrentes de la misma fecha.
type TxRunner interface {
	Run(ctx context.Context, fn func(apptRepo repository.AppointmentRepository) error) error
}
