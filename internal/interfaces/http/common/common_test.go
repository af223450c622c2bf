package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(domain.NewValidationError("x")))
	assert.Equal(t, http.StatusNotFound, StatusFor(domain.ErrFormNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(domain.ErrFormInactive))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("socket closed")))
}

func TestWriteDomainErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(zap.NewNop().Sugar(), rec, errors.New("mongo: connection reset"), "failed to load forms")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to load forms"}`, rec.Body.String())
}

func TestWriteDomainErrorListsProblems(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(nil, rec, domain.NewValidationError("Name is required", "Rating: please select a rating"), "invalid")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error    string   `json:"error"`
		Problems []string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Name is required", "Rating: please select a rating"}, body.Problems)
}

type sampleRequest struct {
	Title  string `json:"title" validate:"required"`
	Fields []struct {
		Type string `json:"type" validate:"oneof=text email"`
	} `json:"fields" validate:"dive"`
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"fields":[{"type":"radio"}]}`))
	var dst sampleRequest
	err := DecodeJSON(req, &dst)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title is required", "fields[0].type must be one of [text email]"}, verr.Problems)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	require.ErrorAs(t, DecodeJSON(req, &dst), &verr)
	assert.Equal(t, []string{"malformed request body"}, verr.Problems)
}
