package notify

import "context"

// Event identifica el punto de transición que origina una notificación.
type Event string

// Eventos de notificación emitidos por el motor.
const (
	EventReceivedBooking Event = "booking_received"     // solicitud de cita registrada
	EventConfirmed       Event = "appointment_confirmed" // cita confirmada por adelanto
	EventCancelled       Event = "appointment_cancelled" // cita cancelada (manual o automática)
	EventAdvancePaid     Event = "advance_paid"          // adelanto registrado
	EventFullyPaid       Event = "fully_paid"            // comprobante saldado
	EventDocumentIssued  Event = "document_issued"       // comprobante emitido con número
)

// Payload son los datos del evento (IDs, montos, fechas ya formateados).
type Payload map[string]string

// Notifier es el colaborador externo de envío (email/SMS).
// Los casos de uso lo invocan después de confirmar la transición; un fallo de envío
// se registra como warning y nunca revierte la transición que lo originó.
type Notifier interface {
	Send(ctx context.Context, event Event, payload Payload) error
}
