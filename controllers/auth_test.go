package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/:provider", Login)
	router.GET("/session", Session)
	return router
}

func TestLoginUnknownProvider(t *testing.T) {

	router := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/facebook",
		strings.NewReader(`{"code":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var apiError ErrorResponse
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &apiError))
	assert.Equal(t, UnknownPlatform, apiError.Code)
}

func TestLoginMissingCode(t *testing.T) {

	router := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/reddit", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var apiError ErrorResponse
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &apiError))
	assert.Equal(t, InvalidJSON, apiError.Code)
}

func TestSessionWithoutToken(t *testing.T) {

	router := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/session", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
