package render

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"resourcegen/config"
	cErr "resourcegen/internal/pkg/error"
	"resourcegen/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, handler http.HandlerFunc) *HTTPRenderer {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	conf := &config.Configuration{}
	conf.Render.URL = server.URL + "/render"
	conf.Render.APIKey = "render-key"
	conf.ApplyDefaults()
	return NewHTTPRenderer(conf, &telemetry.Trace{}, &telemetry.Metric{}, server.Client())
}

func TestHTTPRenderer_Success(t *testing.T) {
	r := newRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer render-key", req.Header.Get("Authorization"))
		var payload renderPayload
		require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		assert.Equal(t, "<p>hi</p>", payload.HTML)
		assert.Equal(t, page{Width: "8.5in", Height: "11in", Orientation: "portrait"}, payload.Page)
		_, _ = io.WriteString(w, `{"url":"https://cdn.example.com/doc.pdf"}`)
	})

	url, err := r.Render(context.Background(), "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/doc.pdf", url)
}

func TestHTTPRenderer_AlternateURLField(t *testing.T) {
	r := newRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = io.WriteString(w, `{"document_url":"https://cdn.example.com/x.pdf"}`)
	})
	url, err := r.Render(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.pdf", url)
}

func TestHTTPRenderer_Failures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"no url": func(w http.ResponseWriter, req *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		},
		"invalid json": func(w http.ResponseWriter, req *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		},
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			url, err := newRenderer(t, handler).Render(context.Background(), "x")
			assert.Empty(t, url)
			assert.True(t, cErr.HasCode(err, cErr.RENDER_FAILED))
		})
	}
}

func TestHTTPRenderer_NotConfigured(t *testing.T) {
	r := NewHTTPRenderer(&config.Configuration{}, &telemetry.Trace{}, &telemetry.Metric{}, nil)
	_, err := r.Render(context.Background(), "x")
	assert.True(t, cErr.HasCode(err, cErr.RENDER_FAILED))
}

func TestWrapHTML_EscapesContent(t *testing.T) {
	html, err := WrapHTML("Quiz", "<script>alert(1)</script>", "")
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "size: 8.5in 11in")
	assert.NotContains(t, html, "answer-key\">")

	withKey, err := WrapHTML("Quiz", "Q1", "A1")
	require.NoError(t, err)
	assert.Contains(t, withKey, "<pre>A1</pre>")
}
