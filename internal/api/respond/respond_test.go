package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := map[domain.ErrorKind]int{
		domain.KindInvalidInput:      http.StatusBadRequest,
		domain.KindNotFound:          http.StatusNotFound,
		domain.KindDuplicateEmail:    http.StatusConflict,
		domain.KindInvalidCredential: http.StatusUnauthorized,
		domain.KindUnauthorized:      http.StatusUnauthorized,
		domain.KindPermissionDenied:  http.StatusForbidden,
		domain.KindEmptyCart:         http.StatusUnprocessableEntity,
		domain.KindGatewayFailure:    http.StatusBadGateway,
		domain.KindStorageFailure:    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, Status(kind), string(kind))
	}
}

func TestErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Error(c, errors.New("raw driver error"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "storage_failure", body["kind"])
	assert.Equal(t, "Internal server error", body["error"], "driver details stay out of responses")
}
