package tests

import (
	"context"
	"testing"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestResolveClient_CreatesNew(t *testing.T) {
	f := newFixture()
	p := f.seller()

	client, err := f.clientSvc.ResolveTx(nil, p, nil, &dto.ClientInfoRequest{
		DNI:   "45879632",
		Name:  "Juan Pérez",
		Email: strptr("juan@example.pe"),
	})
	require.NoError(t, err)
	assert.Equal(t, "45879632", client.DNI)
	assert.Equal(t, f.tenantID, client.TenantID)
	assert.Equal(t, p.UserID, client.CreatedByID)
	assert.Len(t, f.clients.clients, 1)
}

func TestResolveClient_DedupByDNIRefreshesFields(t *testing.T) {
	f := newFixture()
	p := f.seller()

	first, err := f.clientSvc.ResolveTx(nil, p, nil, &dto.ClientInfoRequest{
		DNI: "45879632", Name: "Juan Pérez",
	})
	require.NoError(t, err)

	second, err := f.clientSvc.ResolveTx(nil, p, nil, &dto.ClientInfoRequest{
		DNI:   "45879632",
		Name:  "Juan A. Pérez",
		Phone: strptr("999888777"),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same DNI must resolve to the same client")
	assert.Equal(t, "Juan A. Pérez", second.Name)
	require.NotNil(t, second.Phone)
	assert.Equal(t, "999888777", *second.Phone)
	assert.Len(t, f.clients.clients, 1)
}

func TestResolveClient_EmptyFieldsDoNotErase(t *testing.T) {
	f := newFixture()
	p := f.seller()

	_, err := f.clientSvc.ResolveTx(nil, p, nil, &dto.ClientInfoRequest{
		DNI: "45879632", Name: "Juan Pérez", Phone: strptr("999888777"),
	})
	require.NoError(t, err)

	refreshed, err := f.clientSvc.ResolveTx(nil, p, nil, &dto.ClientInfoRequest{
		DNI: "45879632",
	})
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", refreshed.Name)
	require.NotNil(t, refreshed.Phone)
	assert.Equal(t, "999888777", *refreshed.Phone)
}

func TestResolveClient_EmailConflict(t *testing.T) {
	f := newFixture()
	p := f.seller()

	_, err := f.clientSvc.ResolveTx(nil, p, nil, &dto.ClientInfoRequest{
		DNI: "45879632", Name: "Juan Pérez", Email: strptr("juan@example.pe"),
	})
	require.NoError(t, err)

	_, err = f.clientSvc.ResolveTx(nil, p, nil, &dto.ClientInfoRequest{
		DNI: "11223344", Name: "Otro Cliente", Email: strptr("juan@example.pe"),
	})
	require.Error(t, err)
	apiErr := apierror.From(err)
	assert.Equal(t, apierror.KindBadRequest, apiErr.Kind)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", apiErr.Code)
}

func TestResolveClient_GenericWalkInReused(t *testing.T) {
	f := newFixture()
	p := f.seller()

	first, err := f.clientSvc.ResolveTx(nil, p, nil, walkInInfo())
	require.NoError(t, err)
	assert.True(t, first.IsGeneric())
	assert.Equal(t, "Cliente General", first.Name)

	second, err := f.clientSvc.ResolveTx(nil, p, nil, walkInInfo())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.clients.clients, 1)
}

func TestResolveClient_ExactlyOneSource(t *testing.T) {
	f := newFixture()
	p := f.seller()
	id := uuid.New()

	_, err := f.clientSvc.ResolveTx(nil, p, &id, walkInInfo())
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))

	_, err = f.clientSvc.ResolveTx(nil, p, nil, nil)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))
}

func TestResolveClient_ByIDChecksTenant(t *testing.T) {
	f := newFixture()
	p := f.seller()

	foreign := &model.Client{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		DNI:      "99887766",
		Name:     "Cliente Ajeno",
	}
	f.clients.clients[foreign.ID] = foreign

	_, err := f.clientSvc.ResolveTx(nil, p, &foreign.ID, nil)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindForbidden))
}

func TestGetClient_ForeignTenantNotFound(t *testing.T) {
	f := newFixture()
	p := f.seller()

	created, err := f.clientSvc.ResolveTx(nil, p, nil, &dto.ClientInfoRequest{
		DNI: "45879632", Name: "Juan Pérez",
	})
	require.NoError(t, err)

	stranger := f.admin()
	stranger.TenantID = uuid.New()
	_, err = f.clientSvc.Get(context.Background(), stranger, created.ID)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestListClients_SearchByName(t *testing.T) {
	f := newFixture()
	p := f.seller()

	for _, c := range []dto.ClientInfoRequest{
		{DNI: "45879632", Name: "Juan Pérez"},
		{DNI: "11223344", Name: "María López"},
	} {
		info := c
		_, err := f.clientSvc.ResolveTx(nil, p, nil, &info)
		require.NoError(t, err)
	}

	list, err := f.clientSvc.List(context.Background(), p, dto.ClientFilter{Search: "maría"})
	require.NoError(t, err)
	require.Equal(t, int64(1), list.Total)
	assert.Equal(t, "María López", list.Data[0].Name)
}
