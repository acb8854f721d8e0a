package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, MsgInvalidCredentials, http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"error","message":"Invalid email or password"}`, rec.Body.String())
}

func TestRespondData(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondData(rec, []string{}, http.StatusOK)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":[]}`, rec.Body.String())
}

func TestRespondMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondMessage(rec, "Product deleted successfully", http.StatusOK)

	assert.JSONEq(t, `{"status":"success","message":"Product deleted successfully"}`, rec.Body.String())
}

func TestRespondJSON_Token(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, Response{Status: StatusSuccess, Token: "abc"}, http.StatusOK)

	assert.JSONEq(t, `{"status":"success","token":"abc"}`, rec.Body.String())
}
