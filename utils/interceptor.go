package utils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// HttpInterceptor is transport middleware that can rewrite response
// bodies before they reach the JSON decoder. Some RPC providers stray
// from the standard response shapes; when enabled, the configured
// replacer patches the body on the way through.
type HttpInterceptor struct {
	core         http.RoundTripper
	enabled      bool
	bodyReplacer Replacer
}

// Replacer rewrites a raw response body.
type Replacer func(body []byte) []byte

var _ http.RoundTripper = &HttpInterceptor{}

// NewHttpInterceptor wraps the default transport. The interceptor starts
// disabled and passes responses through untouched until Enable is called.
func NewHttpInterceptor(bodyReplacer Replacer) *HttpInterceptor {
	return &HttpInterceptor{
		core:         http.DefaultTransport,
		enabled:      false,
		bodyReplacer: bodyReplacer,
	}
}

func (i *HttpInterceptor) Enable() {
	i.enabled = true
}

func (i *HttpInterceptor) Disable() {
	i.enabled = false
}

func (i *HttpInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := i.core.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if !i.enabled {
		return res, nil
	}
	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		return nil, err
	}
	newBody := i.bodyReplacer(body)
	res.Body = io.NopCloser(bytes.NewReader(newBody))
	res.ContentLength = int64(len(newBody))
	res.Header.Set("Content-Length", fmt.Sprintf("%d", res.ContentLength))
	return res, nil
}
