package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adspace/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

// Do sends a request through engine, encoding body as JSON when it is not nil
func Do(t *testing.T, engine http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "encode request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// DecodeData splits a response into its envelope and its data decoded as T.
// A null or absent data field leaves T at its zero value.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) (T, dto.Response) {
	t.Helper()

	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "decode envelope: %s", w.Body.String())

	var data T
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		require.NoError(t, json.Unmarshal(envelope.Data, &data), "decode data: %s", envelope.Data)
	}
	return data, envelope.Response
}
