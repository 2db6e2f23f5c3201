package service

import (
	"context"
	"time"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/auth"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"

	"github.com/google/uuid"
)

type CashService interface {
	Open(ctx context.Context, p auth.Principal, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, p auth.Principal, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	// RegisterMovement records a manual cash in/out. Movements are immutable.
	RegisterMovement(ctx context.Context, p auth.Principal, req dto.ManualMovementRequest) error
	Report(ctx context.Context, p auth.Principal, sessionID uuid.UUID) (*dto.SessionResponse, error)
	FindActive(ctx context.Context, p auth.Principal, storeID uuid.UUID) (*dto.SessionResponse, error)
}

type cashService struct {
	repo   repository.CashRepository
	stores repository.StoreRepository
	scope  *Scope
}

func NewCashService(repo repository.CashRepository, stores repository.StoreRepository, scope *Scope) CashService {
	return &cashService{repo: repo, stores: stores, scope: scope}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *cashService) Open(ctx context.Context, p auth.Principal, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apierror.BadRequest("store_id inválido")
	}
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, apierror.NotFound("tienda %s no encontrada", req.StoreID)
	}
	if err := s.scope.AuthorizeStore(ctx, store, p); err != nil {
		return nil, apierror.From(err)
	}

	// Guard: one open session per store.
	if existing, err := s.repo.FindOpenByStore(ctx, storeID); err == nil && existing != nil {
		return nil, apierror.Conflict("ya existe una sesión de caja abierta en esta tienda")
	}

	session := &model.CashSession{
		StoreID:       storeID,
		OpenedByID:    p.UserID,
		OpeningAmount: req.OpeningAmount,
		Status:        model.SessionOpen,
		OpenedAt:      time.Now(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, apierror.Internal("error abriendo la sesión de caja", err)
	}
	return s.buildReport(ctx, session, false)
}

// ── Close ─────────────────────────────────────────────────────────────────────
// OPEN → CLOSED is terminal. Expected cash is opening amount plus the signed
// sum of EFECTIVO movements.

func (s *cashService) Close(ctx context.Context, p auth.Principal, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	sessionID, err := uuid.Parse(req.CashSessionID)
	if err != nil {
		return nil, apierror.BadRequest("cash_session_id inválido")
	}
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, apierror.NotFound("sesión de caja no encontrada")
	}
	if err := s.scope.AuthorizeSession(ctx, session, p); err != nil {
		return nil, apierror.From(err)
	}
	if !session.IsOpen() {
		return nil, apierror.Conflict("la sesión ya está cerrada")
	}

	now := time.Now()
	session.Status = model.SessionClosed
	session.ClosedAt = &now
	session.ClosingAmount = req.ClosingAmount
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, apierror.Internal("error cerrando la sesión de caja", err)
	}
	return s.buildReport(ctx, session, true)
}

// ── RegisterMovement ──────────────────────────────────────────────────────────

func (s *cashService) RegisterMovement(ctx context.Context, p auth.Principal, req dto.ManualMovementRequest) error {
	sessionID, err := uuid.Parse(req.CashSessionID)
	if err != nil {
		return apierror.BadRequest("cash_session_id inválido")
	}
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return apierror.NotFound("sesión de caja no encontrada")
	}
	if err := s.scope.AuthorizeSession(ctx, session, p); err != nil {
		return apierror.From(err)
	}
	if !session.IsOpen() {
		return apierror.Conflict("la sesión de caja está cerrada")
	}
	if !req.Amount.IsPositive() {
		return apierror.BadRequest("el monto debe ser mayor a cero")
	}

	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = model.PaymentCash
	}
	mov := &model.CashMovement{
		CashSessionID: sessionID,
		Type:          req.Type,
		Amount:        req.Amount,
		PaymentType:   paymentType,
		Description:   req.Description,
		UserID:        p.UserID,
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return apierror.Internal("error registrando el movimiento", err)
	}
	return nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *cashService) Report(ctx context.Context, p auth.Principal, sessionID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, apierror.NotFound("sesión de caja no encontrada")
	}
	if err := s.scope.AuthorizeSession(ctx, session, p); err != nil {
		return nil, apierror.From(err)
	}
	return s.buildReport(ctx, session, true)
}

func (s *cashService) FindActive(ctx context.Context, p auth.Principal, storeID uuid.UUID) (*dto.SessionResponse, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, apierror.NotFound("tienda no encontrada")
	}
	if err := s.scope.AuthorizeStore(ctx, store, p); err != nil {
		return nil, apierror.From(err)
	}
	session, err := s.repo.FindOpenByStore(ctx, storeID)
	if err != nil {
		return nil, apierror.NotFound("no hay sesión de caja abierta en esta tienda")
	}
	return s.buildReport(ctx, session, false)
}

func (s *cashService) buildReport(ctx context.Context, session *model.CashSession, withMovements bool) (*dto.SessionResponse, error) {
	cashTotal, err := s.repo.SumCashMovements(ctx, session.ID)
	if err != nil {
		return nil, apierror.Internal("error sumando movimientos de caja", err)
	}
	expected := session.OpeningAmount.Add(cashTotal)

	resp := &dto.SessionResponse{
		ID:            session.ID.String(),
		StoreID:       session.StoreID.String(),
		Status:        session.Status,
		OpeningAmount: session.OpeningAmount,
		ClosingAmount: session.ClosingAmount,
		ExpectedCash:  expected,
		OpenedAt:      formatTime(session.OpenedAt),
	}
	if session.ClosingAmount != nil {
		diff := session.ClosingAmount.Sub(expected)
		resp.Difference = &diff
	}
	if session.ClosedAt != nil {
		t := formatTime(*session.ClosedAt)
		resp.ClosedAt = &t
	}

	if withMovements {
		movs, err := s.repo.ListMovements(ctx, session.ID)
		if err != nil {
			return nil, apierror.Internal("error listando movimientos", err)
		}
		items := make([]dto.MovementResponse, 0, len(movs))
		for _, m := range movs {
			item := dto.MovementResponse{
				ID:          m.ID.String(),
				Type:        m.Type,
				Amount:      m.Amount,
				PaymentType: m.PaymentType,
				Description: m.Description,
				CreatedAt:   formatTime(m.CreatedAt),
			}
			if m.OrderID != nil {
				id := m.OrderID.String()
				item.OrderID = &id
			}
			items = append(items, item)
		}
		resp.Movements = items
	}
	return resp, nil
}
