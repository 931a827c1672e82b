package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decoracionesmori/gestion-api/internal/application/inventory"
	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	movements map[string]*entity.InventoryMovement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{movements: map[string]*entity.InventoryMovement{}}
}

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	r.movements[m.ID] = m
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	return r.movements[id], nil
}

func (r *fakeMovementRepo) SetDraft(ids []string, draft bool) (int, error) {
	changed := 0
	for _, id := range ids {
		m, ok := r.movements[id]
		if ok && m.Draft != draft {
			m.Draft = draft
			changed++
		}
	}
	return changed, nil
}

func (r *fakeMovementRepo) Delete(id string) error {
	delete(r.movements, id)
	return nil
}

func (r *fakeMovementRepo) DistinctProducts(ids []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, id := range ids {
		if m, ok := r.movements[id]; ok && !seen[m.ProductID] {
			seen[m.ProductID] = true
			out = append(out, m.ProductID)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) SumConfirmed(productID string) (decimal.Decimal, decimal.Decimal, error) {
	entradas, salidas := decimal.Zero, decimal.Zero
	for _, m := range r.movements {
		if m.ProductID != productID || m.Draft {
			continue
		}
		switch m.MovementType {
		case entity.MovementEntrada:
			entradas = entradas.Add(m.Quantity)
		case entity.MovementSalida:
			salidas = salidas.Add(m.Quantity)
		}
	}
	return entradas, salidas, nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) List(limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.movements {
		out = append(out, m)
	}
	return out, nil
}

type fakeStatusRepo struct {
	statuses map[string]*entity.InventoryStatus
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: map[string]*entity.InventoryStatus{}}
}

func (r *fakeStatusRepo) Get(productID string) (*entity.InventoryStatus, error) {
	return r.statuses[productID], nil
}

func (r *fakeStatusRepo) Upsert(s *entity.InventoryStatus) error {
	r.statuses[s.ProductID] = s
	return nil
}

func (r *fakeStatusRepo) List() ([]*entity.InventoryStatus, error) {
	var out []*entity.InventoryStatus
	for _, s := range r.statuses {
		out = append(out, s)
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) List() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

type fakeTxRunner struct {
	movRepo    repository.InventoryMovementRepository
	statusRepo repository.InventoryStatusRepository
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.InventoryMovementRepository,
	repository.InventoryStatusRepository,
) error) error {
	return fn(r.movRepo, r.statusRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

type invFixture struct {
	svc      *inventory.InventoryService
	movs     *fakeMovementRepo
	statuses *fakeStatusRepo
}

func newInvFixture(t *testing.T) *invFixture {
	t.Helper()
	movs := newFakeMovementRepo()
	statuses := newFakeStatusRepo()
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", Name: "Rollo de tela", Unit: "rollo", Active: true},
		"prod-2": {ID: "prod-2", Name: "Globos", Unit: "unidad", Active: true},
	}}
	svc := inventory.NewInventoryService(
		&fakeTxRunner{movRepo: movs, statusRepo: statuses},
		movs, statuses, products, zerolog.Nop(),
	)
	svc.Now = func() time.Time { return time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC) }
	return &invFixture{svc: svc, movs: movs, statuses: statuses}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *invFixture) record(t *testing.T, productID, mtype, qty string, draft bool) *entity.InventoryMovement {
	t.Helper()
	mov, err := f.svc.RecordMovement(context.Background(), inventory.MovementInput{
		ProductID: productID, MovementType: mtype, Quantity: dec(qty), Draft: draft,
	})
	require.NoError(t, err)
	return mov
}

func (f *invFixture) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	status, err := f.statuses.Get(productID)
	require.NoError(t, err)
	require.NotNil(t, status, "el cache de stock debe estar materializado")
	return status.CurrentStock
}

// ──────────────────────────────────────────────────────────────────────────────
// Derivación de stock
// ──────────────────────────────────────────────────────────────────────────────

// El stock es siempre Σ(entradas) − Σ(salidas) de movimientos confirmados.
func TestRecordMovement_DerivaStockDelLibro(t *testing.T) {
	f := newInvFixture(t)

	f.record(t, "prod-1", entity.MovementEntrada, "10", false)
	f.record(t, "prod-1", entity.MovementEntrada, "5.5", false)
	f.record(t, "prod-1", entity.MovementSalida, "3", false)

	assert.True(t, f.stock(t, "prod-1").Equal(dec("12.5")), "stock = 10 + 5.5 - 3")
}

// Un movimiento en borrador no afecta el stock hasta confirmarse.
func TestRecordMovement_BorradorNoAfectaStock(t *testing.T) {
	f := newInvFixture(t)

	f.record(t, "prod-1", entity.MovementEntrada, "10", false)
	f.record(t, "prod-1", entity.MovementSalida, "4", true)

	assert.True(t, f.stock(t, "prod-1").Equal(dec("10")))
}

func TestRecordMovement_EntradasInvalidas(t *testing.T) {
	f := newInvFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordMovement(ctx, inventory.MovementInput{
		ProductID: "prod-1", MovementType: "ajuste", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo de movimiento desconocido")

	_, err = f.svc.RecordMovement(ctx, inventory.MovementInput{
		ProductID: "prod-1", MovementType: entity.MovementEntrada, Quantity: dec("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad debe ser positiva")

	_, err = f.svc.RecordMovement(ctx, inventory.MovementInput{
		ProductID: "no-existe", MovementType: entity.MovementEntrada, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación y reversa de borradores
// ──────────────────────────────────────────────────────────────────────────────

func TestToggleDraft_ConfirmarRecomputaStock(t *testing.T) {
	f := newInvFixture(t)

	f.record(t, "prod-1", entity.MovementEntrada, "10", false)
	draft := f.record(t, "prod-1", entity.MovementSalida, "4", true)

	changed, err := f.svc.ToggleDraft(context.Background(), []string{draft.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.True(t, f.stock(t, "prod-1").Equal(dec("6")))
}

func TestToggleDraft_VolverABorradorRestauraStock(t *testing.T) {
	f := newInvFixture(t)

	f.record(t, "prod-1", entity.MovementEntrada, "10", false)
	salida := f.record(t, "prod-1", entity.MovementSalida, "4", false)
	require.True(t, f.stock(t, "prod-1").Equal(dec("6")))

	changed, err := f.svc.ToggleDraft(context.Background(), []string{salida.ID}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.True(t, f.stock(t, "prod-1").Equal(dec("10")))
}

// Un lote mixto recomputa cada producto tocado y solo cuenta los que cambiaron.
func TestToggleDraft_LoteMultiproducto(t *testing.T) {
	f := newInvFixture(t)

	m1 := f.record(t, "prod-1", entity.MovementEntrada, "7", true)
	m2 := f.record(t, "prod-2", entity.MovementEntrada, "100", true)
	m3 := f.record(t, "prod-2", entity.MovementSalida, "20", false) // ya confirmado

	changed, err := f.svc.ToggleDraft(context.Background(), []string{m1.ID, m2.ID, m3.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, changed, "el ya confirmado no cuenta como cambiado")
	assert.True(t, f.stock(t, "prod-1").Equal(dec("7")))
	assert.True(t, f.stock(t, "prod-2").Equal(dec("80")))
}

func TestToggleDraft_LoteVacio(t *testing.T) {
	f := newInvFixture(t)
	_, err := f.svc.ToggleDraft(context.Background(), nil, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteMovement_RecomputaStock(t *testing.T) {
	f := newInvFixture(t)

	f.record(t, "prod-1", entity.MovementEntrada, "10", false)
	salida := f.record(t, "prod-1", entity.MovementSalida, "4", false)
	require.True(t, f.stock(t, "prod-1").Equal(dec("6")))

	require.NoError(t, f.svc.DeleteMovement(context.Background(), salida.ID))
	assert.True(t, f.stock(t, "prod-1").Equal(dec("10")))
}

func TestDeleteMovement_Inexistente(t *testing.T) {
	f := newInvFixture(t)
	err := f.svc.DeleteMovement(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta de stock
// ──────────────────────────────────────────────────────────────────────────────

// Producto sin fila de estado: la consulta rellena el cache desde el historial.
func TestGetStatus_MaterializaElCache(t *testing.T) {
	f := newInvFixture(t)

	// Movimientos insertados por fuera del servicio: el cache no existe aún.
	f.movs.movements["m1"] = &entity.InventoryMovement{
		ID: "m1", ProductID: "prod-1", MovementType: entity.MovementEntrada, Quantity: dec("9"),
	}
	require.Nil(t, f.statuses.statuses["prod-1"])

	status, err := f.svc.GetStatus(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.True(t, status.CurrentStock.Equal(dec("9")))
	assert.NotNil(t, f.statuses.statuses["prod-1"], "la consulta debe dejar el cache poblado")
}

func TestGetStatus_ProductoInexistente(t *testing.T) {
	f := newInvFixture(t)
	_, err := f.svc.GetStatus(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
