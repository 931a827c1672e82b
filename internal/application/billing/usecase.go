package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/decoracionesmori/gestion-api/internal/application/notify"
	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
	"github.com/decoracionesmori/gestion-api/pkg/config"
)

// BillingService administra el ciclo de vida de los comprobantes:
// borrador → emitida → pagada, con anulada como salida lateral. El número de
// serie se asigna una sola vez, en la primera salida de borrador, y la entrada a
// pagada descarga el inventario exactamente una vez.
type BillingService struct {
	cfg         config.BillingConfig
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	svcRepo     repository.ServiceRepository
	productRepo repository.ProductRepository
	bridge      InventoryBridge
	notifier    notify.Notifier
	log         zerolog.Logger

	// Now permite fijar el reloj en tests; por defecto time.Now.
	Now func() time.Time
}

// NewBillingService construye el servicio de facturación.
func NewBillingService(
	cfg config.BillingConfig,
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	svcRepo repository.ServiceRepository,
	productRepo repository.ProductRepository,
	bridge InventoryBridge,
	notifier notify.Notifier,
	log zerolog.Logger,
) *BillingService {
	return &BillingService{
		cfg:         cfg,
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		svcRepo:     svcRepo,
		productRepo: productRepo,
		bridge:      bridge,
		notifier:    notifier,
		log:         log,
		Now:         time.Now,
	}
}

// CreateDraft crea un comprobante en borrador, sin número asignado.
func (s *BillingService) CreateDraft(ctx context.Context, in CreateDraftInput) (*entity.Invoice, error) {
	if in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InvoiceType != entity.InvoiceTypeBoleta && in.InvoiceType != entity.InvoiceTypeFactura {
		return nil, domain.ErrInvalidInput
	}
	client, err := s.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	series := in.Series
	if series == "" {
		series = s.cfg.DefaultSeries
	}

	now := s.Now()
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		InvoiceType:    in.InvoiceType,
		Series:         series,
		Number:         nil,
		DateIssued:     now,
		ClientID:       in.ClientID,
		AppointmentID:  in.AppointmentID,
		Status:         entity.InvoiceStatusBorrador,
		Subtotal:       decimal.Zero,
		IGV:            decimal.Zero,
		Total:          decimal.Zero,
		AdvancePayment: decimal.Zero,
		PendingBalance: decimal.Zero,
		Notes:          in.Notes,
		CreatedBy:      in.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.invoiceRepo.Create(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateDraftInput entrada para crear un comprobante en borrador.
type CreateDraftInput struct {
	InvoiceType   string
	Series        string
	ClientID      string
	AppointmentID string
	Notes         string
	CreatedBy     string
}

// AddItemInput entrada para agregar una línea a un comprobante.
type AddItemInput struct {
	ItemType    string
	ServiceID   string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
}

// AddItem agrega una línea al comprobante y recalcula los totales. Si la línea es
// de tipo service, expande su lista de materiales en líneas product al precio de
// lista de cada producto; la guarda anti-duplicado evita re-expandir si la línea
// ya fue expandida.
func (s *BillingService) AddItem(ctx context.Context, invoiceID string, in AddItemInput) (*entity.Invoice, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	item := &entity.InvoiceItem{
		ID:          uuid.New().String(),
		InvoiceID:   invoiceID,
		ItemType:    in.ItemType,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Discount:    in.Discount,
	}

	// Precio y descripción por defecto desde el catálogo.
	var components []*entity.ServiceComponent
	var serviceName string
	switch in.ItemType {
	case entity.ItemTypeService:
		if in.ServiceID == "" {
			return nil, domain.ErrInvalidInput
		}
		svc, err := s.svcRepo.GetByID(in.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, domain.ErrNotFound
		}
		item.ServiceID = in.ServiceID
		serviceName = svc.Name
		if item.UnitPrice.IsZero() {
			item.UnitPrice = svc.Price()
		}
		if item.Description == "" {
			item.Description = svc.Name
		}
		components, err = s.svcRepo.ListComponents(in.ServiceID)
		if err != nil {
			return nil, err
		}
	case entity.ItemTypeProduct:
		if in.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		product, err := s.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		item.ProductID = in.ProductID
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.Price()
		}
		if item.Description == "" {
			item.Description = product.Name
		}
	case entity.ItemTypeOther:
		if item.Description == "" {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	item.ComputeSubtotal()

	var updated *entity.Invoice
	err := s.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.AppointmentRepository,
		_ repository.InventoryMovementRepository,
		_ repository.InventoryStatusRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.IsTerminal() {
			return domain.ErrInvoiceTerminal
		}
		item.AppointmentID = inv.AppointmentID
		if err := invoiceRepo.CreateItem(item); err != nil {
			return err
		}
		// Expansión de la lista de materiales: una línea product por componente,
		// al precio de lista del producto, ligada a la línea service que la generó.
		for _, comp := range components {
			dup, err := invoiceRepo.HasComponentItem(invoiceID, item.ID, comp.ProductID)
			if err != nil {
				return err
			}
			if dup {
				continue
			}
			product, err := s.productRepo.GetByID(comp.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrMissingProduct
			}
			child := &entity.InvoiceItem{
				ID:            uuid.New().String(),
				InvoiceID:     invoiceID,
				ItemType:      entity.ItemTypeProduct,
				ProductID:     comp.ProductID,
				Description:   product.Name + " - Usado en " + serviceName,
				Quantity:      comp.Quantity.Mul(item.Quantity),
				UnitPrice:     product.Price(),
				Discount:      decimal.Zero,
				AppointmentID: inv.AppointmentID,
				ComponentOf:   item.ID,
			}
			child.ComputeSubtotal()
			if err := invoiceRepo.CreateItem(child); err != nil {
				return err
			}
		}
		if err := s.recomputeTotals(invoiceRepo, inv); err != nil {
			return err
		}
		inv.UpdatedAt = s.Now()
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Issue emite el comprobante: asigna el siguiente número de la serie y pasa a
// emitida. La asignación se serializa por serie, de modo que dos emisiones
// concurrentes no puedan obtener el mismo número.
func (s *BillingService) Issue(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	var issued *entity.Invoice
	err := s.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.AppointmentRepository,
		_ repository.InventoryMovementRepository,
		_ repository.InventoryStatusRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InvoiceStatusBorrador {
			return domain.ErrNumberAssigned
		}
		if err := assignNumber(invoiceRepo, inv); err != nil {
			return err
		}
		inv.Status = entity.InvoiceStatusEmitida
		inv.DateIssued = s.Now()
		inv.UpdatedAt = inv.DateIssued
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		issued = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.send(ctx, notify.EventDocumentIssued, notify.Payload{
		"invoice_id": issued.ID,
		"document":   issued.DocumentReference(),
		"client_id":  issued.ClientID,
	})
	return issued, nil
}

// Void anula un comprobante. Un comprobante pagado ya descargó inventario y no
// admite anulación.
func (s *BillingService) Void(ctx context.Context, invoiceID, reason string) (*entity.Invoice, error) {
	var voided *entity.Invoice
	err := s.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.AppointmentRepository,
		_ repository.InventoryMovementRepository,
		_ repository.InventoryStatusRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.IsTerminal() {
			return domain.ErrInvoiceTerminal
		}
		inv.Status = entity.InvoiceStatusAnulada
		if reason != "" {
			inv.Notes = appendNote(inv.Notes, reason)
		}
		inv.UpdatedAt = s.Now()
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		voided = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return voided, nil
}

// GetByID devuelve un comprobante con sus líneas.
func (s *BillingService) GetByID(ctx context.Context, invoiceID string) (*entity.Invoice, []*entity.InvoiceItem, error) {
	inv, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := s.invoiceRepo.ListItems(invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return inv, items, nil
}

// List devuelve comprobantes paginados.
func (s *BillingService) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	return s.invoiceRepo.List(limit, offset)
}

// ListByClient devuelve los comprobantes de un cliente.
func (s *BillingService) ListByClient(ctx context.Context, clientID string) ([]*entity.Invoice, error) {
	return s.invoiceRepo.ListByClient(clientID)
}

// recomputeTotals deriva subtotal, IGV, total y saldo pendiente desde las líneas:
// subtotal = Σ líneas, IGV = subtotal × tasa, total = subtotal + IGV.
func (s *BillingService) recomputeTotals(invoiceRepo repository.InvoiceRepository, inv *entity.Invoice) error {
	items, err := invoiceRepo.ListItems(inv.ID)
	if err != nil {
		return err
	}
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	inv.Subtotal = subtotal
	inv.IGV = subtotal.Mul(s.cfg.IGVRate).Round(2)
	inv.Total = subtotal.Add(inv.IGV)
	inv.PendingBalance = inv.Total.Sub(inv.AdvancePayment)
	return nil
}

// assignNumber toma el siguiente número de la serie bajo el candado de serie.
// No debe llamarse si el comprobante ya tiene número.
func assignNumber(invoiceRepo repository.InvoiceRepository, inv *entity.Invoice) error {
	if inv.Number != nil {
		return domain.ErrNumberAssigned
	}
	if err := invoiceRepo.LockSeries(inv.Series); err != nil {
		return err
	}
	max, err := invoiceRepo.MaxNumberInSeries(inv.Series)
	if err != nil {
		return err
	}
	next := max + 1
	inv.Number = &next
	return nil
}

func appendNote(notes, extra string) string {
	if notes == "" {
		return extra
	}
	return notes + "\n" + extra
}

// send notifica un evento sin bloquear la transición: un fallo del colaborador se
// registra como warning y se descarta.
func (s *BillingService) send(ctx context.Context, event notify.Event, payload notify.Payload) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", string(event)).Msg("fallo al enviar notificación")
	}
}
