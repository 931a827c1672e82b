package clients

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/decoracionesmori/gestion-api/internal/application/dto"
	"github.com/decoracionesmori/gestion-api/internal/domain"
	"github.com/decoracionesmori/gestion-api/internal/domain/entity"
	"github.com/decoracionesmori/gestion-api/internal/domain/repository"
)

// IdentityLookup consulta un DNI/RUC en el servicio externo y devuelve los datos
// registrados, o Found=false si el documento no existe. Se usa solo para prellenar
// clientes; no participa de ningún invariante.
type IdentityLookup interface {
	Lookup(ctx context.Context, dni string) (*dto.IdentityLookupResponse, error)
}

// ClientUseCase administra el padrón de clientes.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
	identity   IdentityLookup
	log        zerolog.Logger
}

// NewClientUseCase construye el caso de uso de clientes.
func NewClientUseCase(clientRepo repository.ClientRepository, identity IdentityLookup, log zerolog.Logger) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, identity: identity, log: log}
}

// Create registra un cliente. Si el DNI ya existe devuelve ErrDuplicate.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*entity.Client, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.DNI != "" {
		existing, err := uc.clientRepo.GetByDNI(in.DNI)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	client := &entity.Client{
		ID:          uuid.New().String(),
		DNI:         in.DNI,
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		CreatedAt:   time.Now(),
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetOrCreateByDNI devuelve el cliente con ese documento, creándolo si no existe.
// Lo usa el flujo de reserva pública: el cliente llena sus datos una vez y las
// reservas siguientes lo reutilizan.
func (uc *ClientUseCase) GetOrCreateByDNI(ctx context.Context, in dto.ClientRequest) (*entity.Client, error) {
	if in.DNI == "" {
		return uc.Create(ctx, in)
	}
	existing, err := uc.clientRepo.GetByDNI(in.DNI)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return uc.Create(ctx, in)
}

// LookupDNI consulta el documento en el servicio externo de identidad para
// prellenar el formulario de cliente. Un fallo del servicio no es un error del
// dominio: se degrada a Found=false.
func (uc *ClientUseCase) LookupDNI(ctx context.Context, dni string) (*dto.IdentityLookupResponse, error) {
	if dni == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.identity == nil {
		return &dto.IdentityLookupResponse{DNI: dni, Found: false}, nil
	}
	res, err := uc.identity.Lookup(ctx, dni)
	if err != nil {
		uc.log.Warn().Err(err).Str("dni", dni).Msg("fallo en consulta de identidad")
		return &dto.IdentityLookupResponse{DNI: dni, Found: false}, nil
	}
	return res, nil
}

// GetByID devuelve un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// Update actualiza los datos de contacto de un cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		client.Name = in.Name
	}
	if in.Email != "" {
		client.Email = in.Email
	}
	if in.PhoneNumber != "" {
		client.PhoneNumber = in.PhoneNumber
	}
	if in.Address != "" {
		client.Address = in.Address
	}
	if err := uc.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

// List devuelve clientes paginados.
func (uc *ClientUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	return uc.clientRepo.List(limit, offset)
}
