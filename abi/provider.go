// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package abi

import (
	"sync"

	"github.com/digigaia/kudu-go/api"
)

// Provider resolves contract account names to compiled ABIs.
type Provider interface {
	GetABI(name string) (*ABI, error)
}

// APIProvider fetches ABIs from a producer node's chain API.
type APIProvider struct {
	Client *api.Client
}

func NewAPIProvider(endpoint string) *APIProvider {
	return &APIProvider{Client: api.NewClient(endpoint)}
}

func (p *APIProvider) GetABI(name string) (*ABI, error) {
	text, err := p.Client.GetABI(name)
	if err != nil {
		return nil, err
	}
	return NewABIFromJSON(text)
}

// RegistryProvider serves ABIs from the process-wide registry.
type RegistryProvider struct{}

func (RegistryProvider) GetABI(name string) (*ABI, error) {
	return GetABI(name)
}

// CachedProvider wraps another provider and keeps every resolved ABI.
type CachedProvider struct {
	provider Provider

	mu    sync.Mutex
	cache map[string]*ABI
}

func NewCachedProvider(provider Provider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    make(map[string]*ABI),
	}
}

func (p *CachedProvider) GetABI(name string) (*ABI, error) {
	p.mu.Lock()
	if a, ok := p.cache[name]; ok {
		p.mu.Unlock()
		return a, nil
	}
	p.mu.Unlock()

	a, err := p.provider.GetABI(name)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[name] = a
	p.mu.Unlock()
	return a, nil
}
