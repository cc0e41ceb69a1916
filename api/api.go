// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

// Package api is a minimal HTTP client for the chain API of an Antelope
// producer node, covering the endpoints the codec needs to fetch ABIs.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	ConstructRequestErrorMessage = "construct chain api request"
	DoHTTPRequestErrorMessage    = "do http request"
	ReadResponseBodyErrorMessage = "read response body"
	UnmarshalBodyErrorMessage    = "unmarshal body"
)

// HTTPError carries a non-2xx chain API response.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status: %d - error: %s", e.Code, e.Message)
}

type Client struct {
	httpClient http.Client
	endpoint   string
}

func NewClient(endpoint string) *Client {
	return &Client{
		httpClient: http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(endpoint, "/"),
	}
}

// Call POSTs params as JSON to the given chain API path and returns the raw
// response body. Error payloads from the node are surfaced as HTTPError.
func (c *Client) Call(path string, params any) (json.RawMessage, error) {
	var body io.Reader
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ConstructRequestErrorMessage, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ConstructRequestErrorMessage, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	log.WithFields(log.Fields{"path": path}).Debug("calling chain api")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DoHTTPRequestErrorMessage, err)
	}
	defer res.Body.Close()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ReadResponseBodyErrorMessage, err)
	}

	if res.StatusCode >= 400 {
		return nil, &HTTPError{Code: res.StatusCode, Message: string(bodyBytes)}
	}
	return bodyBytes, nil
}

type getABIResponse struct {
	AccountName string          `json:"account_name"`
	ABI         json.RawMessage `json:"abi"`
}

// GetABI fetches the ABI JSON text of the given account.
func (c *Client) GetABI(account string) (string, error) {
	body, err := c.Call("/v1/chain/get_abi", map[string]string{"account_name": account})
	if err != nil {
		return "", err
	}
	var response getABIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%s: %w", UnmarshalBodyErrorMessage, err)
	}
	if len(response.ABI) == 0 {
		return "", fmt.Errorf("account %q has no ABI", account)
	}
	return string(response.ABI), nil
}

// ChainInfo is the subset of `/v1/chain/get_info` the tooling reports.
type ChainInfo struct {
	ServerVersion       string `json:"server_version"`
	ChainID             string `json:"chain_id"`
	HeadBlockNum        uint32 `json:"head_block_num"`
	LastIrreversibleNum uint32 `json:"last_irreversible_block_num"`
	HeadBlockID         string `json:"head_block_id"`
	HeadBlockTime       string `json:"head_block_time"`
	HeadBlockProducer   string `json:"head_block_producer"`
}

func (c *Client) GetInfo() (ChainInfo, error) {
	body, err := c.Call("/v1/chain/get_info", nil)
	if err != nil {
		return ChainInfo{}, err
	}
	var info ChainInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return ChainInfo{}, fmt.Errorf("%s: %w", UnmarshalBodyErrorMessage, err)
	}
	return info, nil
}
