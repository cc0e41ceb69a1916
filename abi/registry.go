// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package abi

import (
	"sync"
)

// The process-wide registry maps contract account names to compiled ABIs.
// Readers get a shared immutable *ABI; writers replace whole entries.
var registry = struct {
	sync.Mutex
	abis map[string]*ABI
}{
	abis: map[string]*ABI{
		"eosio":       mustCompile(EosioABI),
		"eosio.token": mustCompile(EosioTokenABI),
	},
}

func mustCompile(text string) *ABI {
	a, err := NewABIFromJSON(text)
	if err != nil {
		panic(err) // embedded ABIs are fixed at build time
	}
	return a
}

// LoadABI compiles the given ABI JSON text and registers it under name,
// replacing any previous entry.
func LoadABI(name, text string) error {
	a, err := NewABIFromJSON(text)
	if err != nil {
		return err
	}
	registry.Lock()
	defer registry.Unlock()
	registry.abis[name] = a
	return nil
}

// GetABI returns the registered ABI for the given contract name.
func GetABI(name string) (*ABI, error) {
	registry.Lock()
	defer registry.Unlock()
	if a, ok := registry.abis[name]; ok {
		return a, nil
	}
	return nil, &UnknownABIError{Name: name}
}

// FindABIFor searches the registry for an ABI that declares the given
// type name.
func FindABIFor(typename string) (*ABI, error) {
	registry.Lock()
	defer registry.Unlock()
	for _, a := range registry.abis {
		if a.HasType(typename) {
			return a, nil
		}
	}
	return nil, &UnknownABIError{Name: typename}
}

// RegisteredABIs returns the names currently present in the registry.
func RegisteredABIs() []string {
	registry.Lock()
	defer registry.Unlock()
	names := make([]string, 0, len(registry.abis))
	for name := range registry.abis {
		names = append(names, name)
	}
	return names
}
