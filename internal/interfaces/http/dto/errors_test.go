package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gemstok/inventory/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeConcurrencyConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInvalidState))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(shared.ErrCodeNotFound))
	assert.Equal(t, ErrCodeForbidden, NormalizeErrorCode(shared.ErrCodeForbidden))
	assert.Equal(t, "CUSTOM", NormalizeErrorCode("CUSTOM"))
}

func TestListRequestNormalize(t *testing.T) {
	var req ListRequest
	req.Normalize()
	assert.Equal(t, DefaultPage, req.Page)
	assert.Equal(t, DefaultPageSize, req.PageSize)

	req = ListRequest{Page: 3, PageSize: 500}
	req.Normalize()
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, MaxPageSize, req.PageSize)
}
