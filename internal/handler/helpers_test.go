package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, req interface{}) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, bindAndValidate(c, req)
}

func TestBindAndValidate_RejectsNonPositivePaymentAmount(t *testing.T) {
	body := `{
		"cash_session_id": "3e2a4a52-5b1f-4a63-9f6d-0b6a4e6cfb10",
		"client_info": {"dni": "00000000"},
		"services": [{"name": "Parchado", "price": "15.00"}],
		"payment_methods": [{"type": "EFECTIVO", "amount": "-5.00"}]
	}`
	var req dto.CreateOrderRequest
	w, ok := bindJSON(t, body, &req)

	require.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Amount")
}

func TestBindAndValidate_RejectsZeroSettlementAmount(t *testing.T) {
	body := `{
		"payments": [{
			"service_id": "3e2a4a52-5b1f-4a63-9f6d-0b6a4e6cfb10",
			"type": "YAPE",
			"amount": "0"
		}]
	}`
	var req dto.CompleteOrderRequest
	w, ok := bindJSON(t, body, &req)

	require.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBindAndValidate_AcceptsPositiveAmount(t *testing.T) {
	body := `{
		"payments": [{
			"service_id": "3e2a4a52-5b1f-4a63-9f6d-0b6a4e6cfb10",
			"type": "EFECTIVO",
			"amount": "25.50"
		}]
	}`
	var req dto.CompleteOrderRequest
	_, ok := bindJSON(t, body, &req)
	require.True(t, ok)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	var req dto.CreateOrderRequest
	w, ok := bindJSON(t, `{"cash_session_id":`, &req)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
