package service

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/auth"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"

	"github.com/google/uuid"
)

// Scope is the single place where tenant/store authorization is decided.
// Every operation that touches a store-owned resource goes through it instead
// of repeating the membership logic ad hoc.
type Scope struct {
	stores repository.StoreRepository
}

func NewScope(stores repository.StoreRepository) *Scope {
	return &Scope{stores: stores}
}

// AuthorizeStore verifies the store belongs to the principal's tenant and,
// for non-ADMIN callers, that a store-membership record exists.
func (s *Scope) AuthorizeStore(ctx context.Context, store *model.Store, p auth.Principal) error {
	if store.TenantID != p.TenantID {
		return apierror.Forbidden("la tienda no pertenece a su empresa")
	}
	if p.IsAdmin() {
		return nil
	}
	member, err := s.stores.IsUserMember(ctx, p.UserID, store.ID)
	if err != nil {
		return apierror.Internal("error verificando membresía de tienda", err)
	}
	if !member {
		return apierror.Forbidden("no tiene acceso a esta tienda")
	}
	return nil
}

// AuthorizeSession authorizes the session through its owning store. The
// session must have its Store preloaded.
func (s *Scope) AuthorizeSession(ctx context.Context, session *model.CashSession, p auth.Principal) error {
	if session.Store == nil {
		return apierror.Internal("sesión sin tienda cargada", nil)
	}
	return s.AuthorizeStore(ctx, session.Store, p)
}

// ProductReachable reports whether the caller may sell the store product in
// the context of the given session's store. ADMIN reaches any product of the
// tenant; everyone else only products of the session's store.
func (s *Scope) ProductReachable(sp *model.StoreProduct, p auth.Principal, sessionStoreID uuid.UUID) bool {
	if p.IsAdmin() {
		return sp.Store != nil && sp.Store.TenantID == p.TenantID
	}
	return sp.StoreID == sessionStoreID
}
