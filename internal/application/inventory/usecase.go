package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// InventoryService administra el libro de movimientos y el cache de stock.
// El libro es append-only: la única mutación permitida sobre un movimiento es el
// flag draft; el stock actual se recomputa siempre desde el libro, nunca se ajusta
// por diferencia.
type InventoryService struct {
	txRunner    TxRunner
	movRepo     repository.InventoryMovementRepository
	statusRepo  repository.InventoryStatusRepository
	productRepo repository.ProductRepository
	log         zerolog.Logger

	// Now permite fijar el reloj en tests; por defecto time.Now.
	Now func() time.Time
}

// NewInventoryService construye el servicio de inventario.
func NewInventoryService(
	txRunner TxRunner,
	movRepo repository.InventoryMovementRepository,
	statusRepo repository.InventoryStatusRepository,
	productRepo repository.ProductRepository,
	log zerolog.Logger,
) *InventoryService {
	return &InventoryService{
		txRunner:    txRunner,
		movRepo:     movRepo,
		statusRepo:  statusRepo,
		productRepo: productRepo,
		log:         log,
		Now:         time.Now,
	}
}

// MovementInput entrada para registrar un movimiento manual.
type MovementInput struct {
	ProductID         string
	Quantity          decimal.Decimal
	MovementType      string
	DocumentReference string
	Notes             string
	Draft             bool
}

// RecordMovement agrega un movimiento al libro y, si no es borrador, recomputa el
// stock del producto dentro de la misma transacción.
func (s *InventoryService) RecordMovement(ctx context.Context, in MovementInput) (*entity.InventoryMovement, error) {
	if in.MovementType != entity.MovementEntrada && in.MovementType != entity.MovementSalida {
		return nil, domain.ErrInvalidInput
	}
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	mov := &entity.InventoryMovement{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		Quantity:          in.Quantity,
		MovementType:      in.MovementType,
		DocumentReference: in.DocumentReference,
		Notes:             in.Notes,
		Draft:             in.Draft,
		CreatedAt:         s.Now(),
	}
	err = s.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		statusRepo repository.InventoryStatusRepository,
	) error {
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if mov.Draft {
			return nil
		}
		_, err := RecomputeStockInTx(movRepo, statusRepo, mov.ProductID, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecomputeStock recomputa el stock de un producto desde el libro y actualiza el
// cache. Es seguro llamarlo redundantemente (idempotente).
func (s *InventoryService) RecomputeStock(ctx context.Context, productID string) (decimal.Decimal, error) {
	var stock decimal.Decimal
	err := s.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		statusRepo repository.InventoryStatusRepository,
	) error {
		var err error
		stock, err = RecomputeStockInTx(movRepo, statusRepo, productID, s.Now())
		return err
	})
	return stock, err
}

// ToggleDraft cambia el flag draft de un lote de movimientos y recomputa el stock
// de cada producto distinto tocado, todo en una transacción. Devuelve cuántos
// movimientos cambiaron.
func (s *InventoryService) ToggleDraft(ctx context.Context, movementIDs []string, draft bool) (int, error) {
	if len(movementIDs) == 0 {
		return 0, domain.ErrInvalidInput
	}
	changed := 0
	err := s.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		statusRepo repository.InventoryStatusRepository,
	) error {
		n, err := movRepo.SetDraft(movementIDs, draft)
		if err != nil {
			return err
		}
		changed = n
		products, err := movRepo.DistinctProducts(movementIDs)
		if err != nil {
			return err
		}
		for _, productID := range products {
			if _, err := RecomputeStockInTx(movRepo, statusRepo, productID, s.Now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// DeleteMovement elimina un movimiento y recomputa el stock de su producto para
// compensar la entrada perdida.
func (s *InventoryService) DeleteMovement(ctx context.Context, id string) error {
	return s.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		statusRepo repository.InventoryStatusRepository,
	) error {
		mov, err := movRepo.GetByID(id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if err := movRepo.Delete(id); err != nil {
			return err
		}
		_, err = RecomputeStockInTx(movRepo, statusRepo, mov.ProductID, s.Now())
		return err
	})
}

// GetStatus devuelve el stock actual del producto. Si el producto nunca materializó
// su fila de estado, la rellena recomputando desde el historial completo.
func (s *InventoryService) GetStatus(ctx context.Context, productID string) (*entity.InventoryStatus, error) {
	status, err := s.statusRepo.Get(productID)
	if err != nil {
		return nil, err
	}
	if status != nil {
		return status, nil
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := s.RecomputeStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &entity.InventoryStatus{ProductID: productID, CurrentStock: stock, LastUpdated: s.Now()}, nil
}

// ListStatus lista el cache de stock completo.
func (s *InventoryService) ListStatus(ctx context.Context) ([]*entity.InventoryStatus, error) {
	return s.statusRepo.List()
}

// ListMovements lista el libro de movimientos, opcionalmente filtrado por producto.
func (s *InventoryService) ListMovements(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID != "" {
		return s.movRepo.ListByProduct(productID, limit, offset)
	}
	return s.movRepo.List(limit, offset)
}

// RegisterSalidaInTx agrega una salida confirmada usando los repositorios del
// caller (misma transacción) y recomputa el stock. Es el puente pago→inventario:
// facturación lo invoca por cada línea de producto al entrar el comprobante en
// pagada.
func (s *InventoryService) RegisterSalidaInTx(
	movRepo repository.InventoryMovementRepository,
	statusRepo repository.InventoryStatusRepository,
	item *entity.InvoiceItem,
	documentReference, notes string,
	now time.Time,
) error {
	if item.ProductID == "" {
		return domain.ErrMissingProduct
	}
	mov := &entity.InventoryMovement{
		ID:                uuid.New().String(),
		ProductID:         item.ProductID,
		Quantity:          item.Quantity,
		MovementType:      entity.MovementSalida,
		DocumentReference: documentReference,
		InvoiceItemID:     item.ID,
		Notes:             notes,
		Draft:             false,
		CreatedAt:         now,
	}
	if err := movRepo.Create(mov); err != nil {
		return err
	}
	_, err := RecomputeStockInTx(movRepo, statusRepo, item.ProductID, now)
	return err
}

// RecomputeStockInTx deriva el stock actual del producto desde el libro
// (Σ entradas − Σ salidas, solo confirmados) y lo escribe en el cache.
// El cache es recomputable en cualquier momento; esta es la única vía de
// actualización.
func RecomputeStockInTx(
	movRepo repository.InventoryMovementRepository,
	statusRepo repository.InventoryStatusRepository,
	productID string,
	now time.Time,
) (decimal.Decimal, error) {
	entradas, salidas, err := movRepo.SumConfirmed(productID)
	if err != nil {
		return decimal.Zero, err
	}
	stock := entradas.Sub(salidas)
	status := &entity.InventoryStatus{
		ProductID:    productID,
		CurrentStock: stock,
		LastUpdated:  now,
	}
	if err := statusRepo.Upsert(status); err != nil {
		return decimal.Zero, err
	}
	return stock, nil
}
