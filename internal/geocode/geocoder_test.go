package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "123 Main St, Ithaca, NY", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat":"42.4534","lon":"-76.4735"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	p, err := c.Geocode(context.Background(), "123 Main St, Ithaca, NY")
	require.NoError(t, err)
	assert.Equal(t, 42.4534, p.Latitude)
	assert.Equal(t, -76.4735, p.Longitude)
}

func TestGeocodeNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestGeocodeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Geocode(context.Background(), "anywhere")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoResult))
}

func TestGeocodeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[{"lat":"0","lon":"0"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.Geocode(context.Background(), "slow place")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoResult))
}
