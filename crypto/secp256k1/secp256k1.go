// Copyright 2020 ChainSafe Systems
// SPDX-License-Identifier: LGPL-3.0-only

package secp256k1

import (
	"crypto/ecdsa"

	secp256k1 "github.com/ethereum/go-ethereum/crypto"

	"github.com/digigaia/kudu-go/crypto/base58check"
)

const PrivateKeyLength = 32

// Keypair wraps a secp256k1 key pair and renders both halves in the
// Antelope text formats (PVT_K1_... / PUB_K1_...).
type Keypair struct {
	public  *ecdsa.PublicKey
	private *ecdsa.PrivateKey
}

func NewKeypairFromPrivateKey(priv []byte) (*Keypair, error) {
	pk, err := secp256k1.ToECDSA(priv)
	if err != nil {
		return nil, err
	}

	return &Keypair{
		public:  pk.Public().(*ecdsa.PublicKey),
		private: pk,
	}, nil
}

func NewKeypair(pk ecdsa.PrivateKey) *Keypair {
	pub := pk.Public()

	return &Keypair{
		public:  pub.(*ecdsa.PublicKey),
		private: &pk,
	}
}

func GenerateKeypair() (*Keypair, error) {
	priv, err := secp256k1.GenerateKey()
	if err != nil {
		return nil, err
	}

	return NewKeypair(*priv), nil
}

// Encode dumps the private key as bytes
func (kp *Keypair) Encode() []byte {
	return secp256k1.FromECDSA(kp.private)
}

// Decode initializes the keypair using the input
func (kp *Keypair) Decode(in []byte) error {
	key, err := secp256k1.ToECDSA(in)
	if err != nil {
		return err
	}

	kp.public = key.Public().(*ecdsa.PublicKey)
	kp.private = key

	return nil
}

// CompressedPublicKey returns the 33-byte compressed form of the public key,
// the payload carried by the binary wire format.
func (kp *Keypair) CompressedPublicKey() []byte {
	return secp256k1.CompressPubkey(kp.public)
}

// PublicKey returns the public key in the PUB_K1_ text format.
func (kp *Keypair) PublicKey() string {
	return "PUB_K1_" + base58check.Encode(secp256k1.CompressPubkey(kp.public), "K1")
}

// PrivateKey returns the private key in the PVT_K1_ text format.
func (kp *Keypair) PrivateKey() string {
	return "PVT_K1_" + base58check.Encode(secp256k1.FromECDSA(kp.private), "K1")
}
