package testutil

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamStub(t *testing.T) {
	stub := NewUpstreamStub(t, http.StatusOK, `{"appid":"abc"}`)

	req, err := http.NewRequest(
		http.MethodPost,
		stub.URL()+"/fetch-appid",
		bytes.NewReader([]byte(`{"db_name":"DB","region":"eu"}`)),
	)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"appid":"abc"}`, string(body))

	recorded := stub.Requests()
	require.Len(t, recorded, 1)
	assert.Equal(t, http.MethodPost, recorded[0].Method)
	assert.Equal(t, "/fetch-appid", recorded[0].Path)
	assert.Equal(t, "Bearer tok", recorded[0].Authorization)
	assert.JSONEq(t, `{"db_name":"DB","region":"eu"}`, string(recorded[0].Body))
}

func TestUpstreamStub_RequireToken(t *testing.T) {
	stub := NewUpstreamStub(t, http.StatusOK, `{}`)
	stub.RequireToken("expected")

	resp, err := http.Post(stub.URL()+"/fetch-appid", "application/json", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpstreamStub_SetResponse(t *testing.T) {
	stub := NewUpstreamStub(t, http.StatusOK, `{}`)
	stub.SetResponse(http.StatusBadGateway, "gateway fell over")

	resp, err := http.Get(stub.URL())
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "gateway fell over", string(body))
}
