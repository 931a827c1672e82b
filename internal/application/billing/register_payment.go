package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/decoracionesmori/gestion-api/internal/application/notify"
	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// PaymentInput entrada para registrar un pago sobre un comprobante.
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    string
	Reference string
}

// paymentOutcome acumula las transiciones ocurridas dentro de la transacción para
// notificarlas después del commit.
type paymentOutcome struct {
	invoice            *entity.Invoice
	fullyPaid          bool
	appointmentConfirm *entity.Appointment
}

// RegisterPayment registra un pago y evalúa la regla de transición:
//
//   - saldo ≤ epsilon y total > 0 → pagada;
//   - adelanto ≥ mínimo y estado borrador → emitida (con número asignado);
//   - nunca hacia atrás desde pagada.
//
// La primera entrada a pagada descarga el inventario (una salida confirmada por
// línea de producto) y completa la cita ligada, todo en la misma transacción; el
// flag InventoryProcessed garantiza que la descarga ocurra exactamente una vez.
func (s *BillingService) RegisterPayment(ctx context.Context, invoiceID string, in PaymentInput) (*entity.Invoice, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var out paymentOutcome
	err := s.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		apptRepo repository.AppointmentRepository,
		movRepo repository.InventoryMovementRepository,
		statusRepo repository.InventoryStatusRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status == entity.InvoiceStatusAnulada {
			return domain.ErrInvoiceTerminal
		}
		if err := s.recomputeTotals(invoiceRepo, inv); err != nil {
			return err
		}
		if in.Amount.GreaterThan(inv.PendingBalance) {
			return domain.ErrOverpayment
		}

		inv.AdvancePayment = inv.AdvancePayment.Add(in.Amount)
		inv.PendingBalance = inv.Total.Sub(inv.AdvancePayment)
		if in.Method != "" {
			inv.PaymentMethod = in.Method
		}
		if in.Reference != "" {
			inv.PaymentReference = in.Reference
		}

		wasPaid := inv.Status == entity.InvoiceStatusPagada
		switch {
		case inv.PendingBalance.LessThanOrEqual(s.cfg.PaidEpsilon) && inv.Total.GreaterThan(decimal.Zero):
			if inv.Status == entity.InvoiceStatusBorrador {
				if err := assignNumber(invoiceRepo, inv); err != nil {
					return err
				}
			}
			inv.Status = entity.InvoiceStatusPagada
			out.fullyPaid = true
		case inv.AdvancePayment.GreaterThanOrEqual(s.cfg.MinimumAdvance) && inv.Status == entity.InvoiceStatusBorrador:
			if err := assignNumber(invoiceRepo, inv); err != nil {
				return err
			}
			inv.Status = entity.InvoiceStatusEmitida
		}

		// Descarga de inventario: exactamente una vez, en la primera entrada a pagada.
		if inv.Status == entity.InvoiceStatusPagada && !wasPaid && !inv.InventoryProcessed {
			if err := s.processInventory(invoiceRepo, movRepo, statusRepo, inv); err != nil {
				return err
			}
			inv.InventoryProcessed = true
		}

		if err := s.transitionAppointment(apptRepo, inv, &out); err != nil {
			return err
		}

		inv.UpdatedAt = s.Now()
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		out.invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyPayment(ctx, in, out)
	return out.invoice, nil
}

// processInventory crea una salida confirmada por cada línea de producto del
// comprobante y recomputa el stock de cada producto tocado. Una línea de producto
// sin producto asociado es un defecto de integridad y aborta la transacción.
func (s *BillingService) processInventory(
	invoiceRepo repository.InvoiceRepository,
	movRepo repository.InventoryMovementRepository,
	statusRepo repository.InventoryStatusRepository,
	inv *entity.Invoice,
) error {
	items, err := invoiceRepo.ListItems(inv.ID)
	if err != nil {
		return err
	}
	docRef := inv.DocumentReference()
	now := s.Now()
	for _, item := range items {
		if item.ItemType != entity.ItemTypeProduct {
			continue
		}
		note := "Venta " + docRef
		if err := s.bridge.RegisterSalidaInTx(movRepo, statusRepo, item, docRef, note, now); err != nil {
			return err
		}
	}
	return nil
}

// transitionAppointment avanza la cita ligada al comprobante: confirmed al
// alcanzar el adelanto mínimo, completed al quedar pagada. Nunca retrocede ni toca
// citas terminales.
func (s *BillingService) transitionAppointment(
	apptRepo repository.AppointmentRepository,
	inv *entity.Invoice,
	out *paymentOutcome,
) error {
	if inv.AppointmentID == "" {
		return nil
	}
	appt, err := apptRepo.GetByID(inv.AppointmentID)
	if err != nil {
		return err
	}
	if appt == nil || appt.IsTerminal() {
		return nil
	}
	switch {
	case inv.Status == entity.InvoiceStatusPagada:
		appt.Status = entity.AppointmentCompleted
	case appt.Status == entity.AppointmentPending && inv.AdvancePayment.GreaterThanOrEqual(s.cfg.MinimumAdvance):
		appt.Status = entity.AppointmentConfirmed
		out.appointmentConfirm = appt
	default:
		return nil
	}
	return apptRepo.Update(appt)
}

// notifyPayment emite las notificaciones del pago después del commit.
func (s *BillingService) notifyPayment(ctx context.Context, in PaymentInput, out paymentOutcome) {
	payload := notify.Payload{
		"invoice_id": out.invoice.ID,
		"document":   out.invoice.DocumentReference(),
		"client_id":  out.invoice.ClientID,
		"amount":     in.Amount.StringFixed(2),
		"pending":    out.invoice.PendingBalance.StringFixed(2),
	}
	if out.fullyPaid {
		s.send(ctx, notify.EventFullyPaid, payload)
	} else {
		s.send(ctx, notify.EventAdvancePaid, payload)
	}
	if out.appointmentConfirm != nil {
		s.send(ctx, notify.EventConfirmed, notify.Payload{
			"appointment_id": out.appointmentConfirm.ID,
			"client_id":      out.appointmentConfirm.ClientID,
			"date":           out.appointmentConfirm.Date.Format("2006-01-02"),
		})
	}
}
