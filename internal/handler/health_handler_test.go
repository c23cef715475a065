package handler

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourzen-api/internal/config"
)

func TestHealthHandler_Check(t *testing.T) {
	t.Run("Database up without Redis", func(t *testing.T) {
		env := newTestEnv(t)
		env.mock.ExpectPing()

		w := env.do(t, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "tourzen-api", resp.Service)
		assert.Equal(t, statusUp, resp.Checks["database"])
		assert.Equal(t, statusDisabled, resp.Checks["redis"])
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Database down", func(t *testing.T) {
		env := newTestEnv(t)
		env.mock.ExpectPing().WillReturnError(assert.AnError)

		w := env.do(t, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp HealthResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, statusDown, resp.Checks["database"])
	})

	t.Run("Redis down degrades", func(t *testing.T) {
		mr := miniredis.RunT(t)
		env := newTestEnv(t, func(cfg *config.Config) { cfg.RedisURL = "redis://" + mr.Addr() })
		require.True(t, env.container.HasRedis())

		env.mock.ExpectPing()
		w := env.do(t, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, statusUp, resp.Checks["redis"])

		mr.Close()
		env.mock.ExpectPing()
		w = env.do(t, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decodeBody(t, w, &resp)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, statusDown, resp.Checks["redis"])
	})
}
