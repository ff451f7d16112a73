package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		Port:           8080,
		StoreDriver:    config.DriverMemory,
		JWTSecret:      "app-test-secret",
		JWTTTL:         time.Hour,
		AuthRateLimit:  10,
		AuthRateWindow: time.Minute,
		MaxBodyBytes:   1 << 20,
	}
}

func TestNew_MemoryDriver(t *testing.T) {
	a, err := New(context.Background(), testConfig(), quietLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	a.Health.SetDraining()
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNew_RedisRevocation(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()

	a, err := New(context.Background(), cfg, quietLogger(), nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	mr.Close()
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	_ = a.Close(context.Background())
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "sqlite"

	_, err := New(context.Background(), cfg, quietLogger(), nil)
	require.Error(t, err)
}

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), quietLogger(), "dep", 3, func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = retry(ctx, quietLogger(), "dep", 3, func(context.Context) error { return errors.New("down") })
	require.ErrorIs(t, err, context.Canceled)
}

func TestBackoffIsCapped(t *testing.T) {
	require.GreaterOrEqual(t, backoff(0), 250*time.Millisecond)
	require.Less(t, backoff(30), 5*time.Second+100*time.Millisecond)
}
