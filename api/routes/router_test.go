package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ticketera/internal/shared/config"
	"ticketera/internal/shared/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthRoutes(t *testing.T) {
	r := NewRouter(&config.Config{APIVersion: "v1"}, &database.DB{}, nil, nil)
	defer r.Close()

	engine := gin.New()
	r.setupHealthRoutes(engine)

	tests := []struct {
		path  string
		key   string
		value any
	}{
		{"/health", "service", serviceName},
		{"/ping", "message", "pong"},
		{"/status", "kafka", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.value, body[tt.key])
		})
	}
}
