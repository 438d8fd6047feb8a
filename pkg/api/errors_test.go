package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/novelenchant/enchant/pkg/config"
	"github.com/novelenchant/enchant/pkg/repo"
	"github.com/novelenchant/enchant/pkg/scheduler"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestRespondError_NotFound(t *testing.T) {
	c, w := newTestContext()
	respondError(c, repo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), codeNotFound)
}

func TestRespondError_ValidationError(t *testing.T) {
	c, w := newTestContext()
	err := config.NewValidationError("style_preset", "noir", "base_prompt", config.ErrMissingRequiredField)
	respondError(c, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), codeValidation)
}

func TestRespondError_JobNotFailed(t *testing.T) {
	c, w := newTestContext()
	respondError(c, scheduler.ErrJobNotFailed)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), codeConflict)
}

func TestRespondError_NoJobsReady(t *testing.T) {
	c, w := newTestContext()
	respondError(c, repo.ErrNoJobsReady)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), codeConflict)
}

func TestRespondError_Unknown(t *testing.T) {
	c, w := newTestContext()
	respondError(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), codeInternal)
}

func TestBadRequest(t *testing.T) {
	c, w := newTestContext()
	badRequest(c, "filename is required")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "filename is required")
}
