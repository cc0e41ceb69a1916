package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetABI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chain/get_abi", r.URL.Path)

		var params map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "eosio.token", params["account_name"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"account_name":"eosio.token","abi":{"version":"eosio::abi/1.2"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text, err := client.GetABI("eosio.token")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"eosio::abi/1.2"}`, text)
}

func TestGetABIMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"account_name":"ghost"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetABI("ghost")
	require.Error(t, err)
}

func TestErrorStatusSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"account not found"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetABI("nobody")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}

func TestGetInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chain/get_info", r.URL.Path)
		_, _ = w.Write([]byte(`{"server_version":"abc123","chain_id":"deadbeef","head_block_num":1234}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	info, err := client.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", info.ChainID)
	assert.Equal(t, uint32(1234), info.HeadBlockNum)
}
