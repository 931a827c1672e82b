package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Se agrupan en tres clases para que los callers puedan mensajear distinto:
// validación (la petición es inválida, nada se mutó), conflicto (la operación choca
// con el estado actual, se rechaza antes de escribir) e integridad (el estado
// persistido es inconsistente; defecto, fallar ruidosamente).
var (
	// Genéricos
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")

	// Validación de reservas
	ErrPastOrTooSoon = errors.New("la cita debe reservarse con al menos un día de anticipación")
	ErrNoSchedule    = errors.New("no hay horario configurado para la fecha seleccionada")
	ErrNonWorkingDay = errors.New("la fecha seleccionada no es un día laborable")
	ErrQuotaExceeded = errors.New("no quedan cupos disponibles para la fecha seleccionada")
	ErrOutsideHours  = errors.New("la hora seleccionada está fuera del horario laboral")

	// Conflictos de estado
	ErrNotCancellable  = errors.New("la cita no admite cancelación en su estado actual")
	ErrOverpayment     = errors.New("el monto excede el saldo pendiente")
	ErrNumberAssigned  = errors.New("el comprobante ya tiene número asignado")
	ErrInvoiceTerminal = errors.New("el comprobante está pagado o anulado y no admite cambios")

	// Integridad (defectos: el estado pasó validaciones previas y aun así es inconsistente)
	ErrMissingProduct = errors.New("integridad: línea de tipo producto sin producto asociado")
)

// Clasificación de errores por clase, para mapeos HTTP y mensajería.
var validationErrors = []error{
	ErrInvalidInput, ErrPastOrTooSoon, ErrNoSchedule, ErrNonWorkingDay,
	ErrQuotaExceeded, ErrOutsideHours,
}

var conflictErrors = []error{
	ErrDuplicate, ErrNotCancellable, ErrOverpayment, ErrNumberAssigned,
	ErrInvoiceTerminal,
}

// IsValidation reporta si err es un error de validación (nada se mutó; re-preguntar al usuario).
func IsValidation(err error) bool {
	return matchesAny(err, validationErrors)
}

// IsConflict reporta si err es un conflicto con el estado actual (rechazado antes de escribir).
func IsConflict(err error) bool {
	return matchesAny(err, conflictErrors)
}

// IsIntegrity reporta si err señala estado persistido inconsistente (defecto).
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrMissingProduct)
}

func matchesAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
