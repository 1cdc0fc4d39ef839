package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterceptorDisabledPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":"original"}`))
	}))
	defer server.Close()

	interceptor := NewHttpInterceptor(func(body []byte) []byte {
		return []byte(`{"value":"replaced"}`)
	})
	client := &http.Client{Transport: interceptor}

	res, err := client.Get(server.URL)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, `{"value":"original"}`, string(body))
}

func TestInterceptorRewritesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":"original"}`))
	}))
	defer server.Close()

	interceptor := NewHttpInterceptor(func(body []byte) []byte {
		return []byte(strings.Replace(string(body), "original", "replaced", 1))
	})
	client := &http.Client{Transport: interceptor}

	interceptor.Enable()
	res, err := client.Get(server.URL)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, `{"value":"replaced"}`, string(body))
	require.Equal(t, int64(len(body)), res.ContentLength)

	// disabling restores pass-through
	interceptor.Disable()
	res, err = client.Get(server.URL)
	require.NoError(t, err)
	body, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, `{"value":"original"}`, string(body))
}
