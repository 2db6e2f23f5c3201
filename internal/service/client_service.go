package service

import (
	"context"
	"errors"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/auth"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientService resolves and reads tenant-scoped clients. ResolveTx is called
// from inside the order transaction so client creation/refresh commits or
// rolls back together with the order.
type ClientService interface {
	// ResolveTx implements the order's customer resolution: reuse an existing
	// client by id, dedup by DNI (refreshing mutable fields), or create. The
	// sentinel DNI "00000000" selects the tenant's shared walk-in client.
	ResolveTx(tx *gorm.DB, p auth.Principal, clientID *uuid.UUID, info *dto.ClientInfoRequest) (*model.Client, error)
	Get(ctx context.Context, p auth.Principal, id uuid.UUID) (*dto.ClientResponse, error)
	List(ctx context.Context, p auth.Principal, filter dto.ClientFilter) (*dto.ClientListResponse, error)
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) ResolveTx(tx *gorm.DB, p auth.Principal, clientID *uuid.UUID, info *dto.ClientInfoRequest) (*model.Client, error) {
	if clientID != nil && info != nil {
		return nil, apierror.BadRequest("indique client_id o client_info, no ambos")
	}
	if clientID == nil && info == nil {
		return nil, apierror.BadRequest("se requiere client_id o client_info")
	}

	if clientID != nil {
		client, err := s.repo.FindByID(contextFromTx(tx), *clientID)
		if err != nil {
			return nil, apierror.NotFound("cliente %s no encontrado", clientID)
		}
		if client.TenantID != p.TenantID {
			return nil, apierror.Forbidden("el cliente no pertenece a su empresa")
		}
		return client, nil
	}

	if info.DNI == model.GenericClientDNI {
		return s.resolveGeneric(tx, p)
	}

	// An email, if present, must map to at most one client per tenant. A hit
	// under a different DNI is a conflicting identity, not a refresh.
	if info.Email != nil && *info.Email != "" {
		existing, err := s.repo.FindByEmailTx(tx, p.TenantID, *info.Email)
		if err == nil && existing.DNI != info.DNI {
			return nil, apierror.BadRequestCode("EMAIL_ALREADY_EXISTS",
				"el email %s ya está registrado con otro documento", *info.Email)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Internal("error buscando cliente por email", err)
		}
	}

	existing, err := s.repo.FindByDNITx(tx, p.TenantID, info.DNI)
	switch {
	case err == nil:
		// Last-write-wins refresh of any newly supplied non-empty fields.
		if info.Name != "" {
			existing.Name = info.Name
		}
		if info.Email != nil && *info.Email != "" {
			existing.Email = info.Email
		}
		if info.Phone != nil && *info.Phone != "" {
			existing.Phone = info.Phone
		}
		if info.Address != nil && *info.Address != "" {
			existing.Address = info.Address
		}
		if info.RUC != nil && *info.RUC != "" {
			existing.RUC = info.RUC
		}
		if err := s.repo.UpdateTx(tx, existing); err != nil {
			return nil, apierror.Internal("error actualizando cliente", err)
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		client := &model.Client{
			TenantID:    p.TenantID,
			CreatedByID: p.UserID,
			DNI:         info.DNI,
			Name:        info.Name,
			Email:       info.Email,
			Phone:       info.Phone,
			Address:     info.Address,
			RUC:         info.RUC,
		}
		if err := s.repo.CreateTx(tx, client); err != nil {
			return nil, apierror.Internal("error creando cliente", err)
		}
		return client, nil
	default:
		return nil, apierror.Internal("error buscando cliente por documento", err)
	}
}

// resolveGeneric reuses or creates the one shared walk-in client per tenant.
func (s *clientService) resolveGeneric(tx *gorm.DB, p auth.Principal) (*model.Client, error) {
	existing, err := s.repo.FindByDNITx(tx, p.TenantID, model.GenericClientDNI)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Internal("error buscando cliente genérico", err)
	}
	client := &model.Client{
		TenantID:    p.TenantID,
		CreatedByID: p.UserID,
		DNI:         model.GenericClientDNI,
		Name:        "Cliente General",
	}
	if err := s.repo.CreateTx(tx, client); err != nil {
		return nil, apierror.Internal("error creando cliente genérico", err)
	}
	return client, nil
}

func (s *clientService) Get(ctx context.Context, p auth.Principal, id uuid.UUID) (*dto.ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("cliente no encontrado")
	}
	if client.TenantID != p.TenantID {
		return nil, apierror.NotFound("cliente no encontrado")
	}
	resp := clientToResponse(client)
	return &resp, nil
}

func (s *clientService) List(ctx context.Context, p auth.Principal, filter dto.ClientFilter) (*dto.ClientListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clients, total, err := s.repo.List(ctx, p.TenantID, filter)
	if err != nil {
		return nil, apierror.Internal("error listando clientes", err)
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientToResponse(&clients[i]))
	}
	return &dto.ClientListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func clientToResponse(c *model.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        c.ID.String(),
		DNI:       c.DNI,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		RUC:       c.RUC,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

// contextFromTx extracts the context bound to the transaction, falling back
// to Background for the nil-DB unit-test mode.
func contextFromTx(tx *gorm.DB) context.Context {
	if tx != nil && tx.Statement != nil && tx.Statement.Context != nil {
		return tx.Statement.Context
	}
	return context.Background()
}
