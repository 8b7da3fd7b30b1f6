package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/session"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(context.Context) error {
	return f.err
}

func getStatus(t *testing.T, h *StatusHandler) model.StatusResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestStatusAllHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := NewStatusHandler(&fakePinger{}, session.NewStore(client, time.Hour))

	resp := getStatus(t, h)
	assert.Equal(t, "connected", resp.Database)
	assert.Equal(t, "active", resp.Session)
	assert.NotEmpty(t, resp.Timestamp)

	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
}

func TestStatusDatabaseDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := NewStatusHandler(&fakePinger{err: errors.New("connection refused")}, session.NewStore(client, time.Hour))

	resp := getStatus(t, h)
	assert.Equal(t, "disconnected", resp.Database)
	assert.Equal(t, "active", resp.Session)
}

func TestStatusSessionStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	h := NewStatusHandler(&fakePinger{}, session.NewStore(client, time.Hour))

	resp := getStatus(t, h)
	assert.Equal(t, "connected", resp.Database)
	assert.Equal(t, "unavailable", resp.Session)
}
