package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tustockya/transfers/internal/interfaces/http/router"
)

type stubPollerStatus struct {
	running bool
}

func (s *stubPollerStatus) IsRunning() bool { return s.running }

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	ginEngine := gin.New()
	router.NewRouter(ginEngine).
		Register(NewSystemHandler(&stubPollerStatus{running: true})).
		Setup()

	req := httptest.NewRequest("GET", "/api/v1/system/info", nil)
	w := httptest.NewRecorder()
	ginEngine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Transfers Agent API", resp.Data.Name)
	assert.True(t, resp.Data.PollerRunning)
	assert.NotEmpty(t, resp.Data.GoVersion)
}

func TestSystemHandler_Ping(t *testing.T) {
	ginEngine := gin.New()
	router.NewRouter(ginEngine).
		Register(NewSystemHandler(&stubPollerStatus{})).
		Setup()

	req := httptest.NewRequest("GET", "/api/v1/system/ping", nil)
	w := httptest.NewRecorder()
	ginEngine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
