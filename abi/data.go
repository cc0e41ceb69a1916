// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package abi

import _ "embed"

// Well-known ABI definitions shipped with the library.

// ABISchema describes the ABI format itself; it bootstraps decoding an ABI
// from its binary form.
//
//go:embed data/abi_definition.json
var ABISchema string

// TransactionABI describes the transaction envelope types.
//
//go:embed data/transaction_abi.json
var TransactionABI string

//go:embed data/eosio_abi.json
var EosioABI string

//go:embed data/eosio_token_abi.json
var EosioTokenABI string
