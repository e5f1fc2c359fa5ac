package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCastVoteWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/polls/:id/vote", CastVote)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/polls/6055d819671e62579fcc2151/vote",
		strings.NewReader(`{"choice":"option1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserVoteWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/polls/:id/vote", GetUserVote)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/polls/6055d819671e62579fcc2151/vote", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
