package tests

import (
	"context"
	"testing"
	"time"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedStore adds a second store to the fixture's tenant, without a session.
func (f *fixture) seedStore(name string) *model.Store {
	store := &model.Store{
		ID:        uuid.New(),
		TenantID:  f.tenantID,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	f.stores.stores[store.ID] = store
	return store
}

func TestOpenSession(t *testing.T) {
	f := newFixture()
	store := f.seedStore("Sucursal Norte")

	resp, err := f.cashSvc.Open(context.Background(), f.admin(), dto.OpenSessionRequest{
		StoreID:       store.ID.String(),
		OpeningAmount: dec(200),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, resp.Status)
	assert.True(t, resp.OpeningAmount.Equal(dec(200)))
	assert.True(t, resp.ExpectedCash.Equal(dec(200)))
}

func TestOpenSession_OnePerStore(t *testing.T) {
	f := newFixture()
	_, err := f.cashSvc.Open(context.Background(), f.admin(), dto.OpenSessionRequest{
		StoreID:       f.store.ID.String(),
		OpeningAmount: dec(50),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestOpenSession_StoreNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.cashSvc.Open(context.Background(), f.admin(), dto.OpenSessionRequest{
		StoreID:       uuid.NewString(),
		OpeningAmount: dec(50),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestCloseSession_ComputesDifference(t *testing.T) {
	f := newFixture()
	p := f.seller()

	// Cash in 50, cash out 20: expected = 100 (opening) + 30.
	require.NoError(t, f.cashSvc.RegisterMovement(context.Background(), p, dto.ManualMovementRequest{
		CashSessionID: f.session.ID.String(),
		Type:          model.CashIncome,
		Amount:        dec(50),
		Description:   "Sencillo inicial",
	}))
	require.NoError(t, f.cashSvc.RegisterMovement(context.Background(), p, dto.ManualMovementRequest{
		CashSessionID: f.session.ID.String(),
		Type:          model.CashExpense,
		Amount:        dec(20),
		Description:   "Compra de agua",
	}))

	counted := dec(120)
	resp, err := f.cashSvc.Close(context.Background(), p, dto.CloseSessionRequest{
		CashSessionID: f.session.ID.String(),
		ClosingAmount: &counted,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionClosed, resp.Status)
	assert.True(t, resp.ExpectedCash.Equal(dec(130)), "expected %s", resp.ExpectedCash)
	require.NotNil(t, resp.Difference)
	assert.True(t, resp.Difference.Equal(dec(-10)), "difference %s", resp.Difference)
	require.NotNil(t, resp.ClosedAt)
}

func TestCloseSession_Twice(t *testing.T) {
	f := newFixture()
	p := f.admin()
	req := dto.CloseSessionRequest{CashSessionID: f.session.ID.String()}

	_, err := f.cashSvc.Close(context.Background(), p, req)
	require.NoError(t, err)

	_, err = f.cashSvc.Close(context.Background(), p, req)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestRegisterMovement_ClosedSession(t *testing.T) {
	f := newFixture()
	f.session.Status = model.SessionClosed

	err := f.cashSvc.RegisterMovement(context.Background(), f.admin(), dto.ManualMovementRequest{
		CashSessionID: f.session.ID.String(),
		Type:          model.CashIncome,
		Amount:        dec(10),
		Description:   "Ingreso manual",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestRegisterMovement_RequiresPositiveAmount(t *testing.T) {
	f := newFixture()
	err := f.cashSvc.RegisterMovement(context.Background(), f.admin(), dto.ManualMovementRequest{
		CashSessionID: f.session.ID.String(),
		Type:          model.CashExpense,
		Amount:        dec(-5),
		Description:   "Monto inválido",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))
}

func TestRegisterMovement_DefaultsToCash(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.cashSvc.RegisterMovement(context.Background(), f.admin(), dto.ManualMovementRequest{
		CashSessionID: f.session.ID.String(),
		Type:          model.CashIncome,
		Amount:        dec(10),
		Description:   "Ingreso manual",
	}))
	require.Len(t, f.cash.movements, 1)
	assert.Equal(t, model.PaymentCash, f.cash.movements[0].PaymentType)
}

func TestSessionReport_IncludesMovements(t *testing.T) {
	f := newFixture()
	p := f.seller()
	sp := f.seedProduct("Llanta 185/65 R15", 120.00, 10)

	_, err := f.orderSvc.Create(context.Background(), p,
		cartRequest(f, sp, 1, dto.PaymentRequest{Type: model.PaymentCash, Amount: dec(120)}))
	require.NoError(t, err)

	report, err := f.cashSvc.Report(context.Background(), p, f.session.ID)
	require.NoError(t, err)
	require.Len(t, report.Movements, 1)
	assert.Equal(t, model.CashIncome, report.Movements[0].Type)
	require.NotNil(t, report.Movements[0].OrderID)
	assert.True(t, report.ExpectedCash.Equal(dec(220)))
}

func TestFindActiveSession(t *testing.T) {
	f := newFixture()
	p := f.seller()

	resp, err := f.cashSvc.FindActive(context.Background(), p, f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, f.session.ID.String(), resp.ID)

	f.session.Status = model.SessionClosed
	_, err = f.cashSvc.FindActive(context.Background(), p, f.store.ID)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestSessionReport_ForeignTenantForbidden(t *testing.T) {
	f := newFixture()
	stranger := f.admin()
	stranger.TenantID = uuid.New()

	_, err := f.cashSvc.Report(context.Background(), stranger, f.session.ID)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindForbidden))
}
