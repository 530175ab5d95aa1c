// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/crypto"
)

var (
	ErrInvalidChainId     = errors.New("invalid chain id for signer")
	ErrExpectedProtection = errors.New("transaction signature is not protected")
)

// sigCache is used to cache the derived sender and contains
// the signer used to derive it.
type sigCache struct {
	signer Signer
	from   common.Address
}

// SignTx signs the transaction using the given signer and private key.
func SignTx(tx *Transaction, s Signer, prv *ecdsa.PrivateKey) (*Transaction, error) {
	h := s.Hash(tx)
	sig, err := crypto.Sign(h[:], prv)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(s, sig)
}

// SignNewTx creates a transaction and signs it.
func SignNewTx(prv *ecdsa.PrivateKey, s Signer, txdata TxData) (*Transaction, error) {
	return SignTx(NewTx(txdata), s, prv)
}

// MustSignNewTx creates a transaction and signs it.
// This panics if the transaction cannot be signed.
func MustSignNewTx(prv *ecdsa.PrivateKey, s Signer, txdata TxData) *Transaction {
	tx, err := SignNewTx(prv, s, txdata)
	if err != nil {
		panic(err)
	}
	return tx
}

// Sender returns the address derived from the signature (V, R, S) using secp256k1
// elliptic curve and an error if it failed deriving or upon an incorrect
// signature.
//
// Sender may cache the address, allowing it to be used regardless of
// signing method. The cache is invalidated if the cached signer does
// not match the signer used in the current call.
func Sender(signer Signer, tx *Transaction) (common.Address, error) {
	if sc := tx.from.Load(); sc != nil {
		sigCache := sc.(sigCache)
		// If the signer used to derive from in a previous
		// call is not the same as used current, invalidate
		// the cache.
		if sigCache.signer.Equal(signer) {
			return sigCache.from, nil
		}
	}

	addr, err := signer.Sender(tx)
	if err != nil {
		return common.Address{}, err
	}
	tx.from.Store(sigCache{signer: signer, from: addr})
	return addr, nil
}

// Signer encapsulates transaction signature handling. The name of this type is slightly
// misleading because Signers don't actually sign, they're just for validating and
// processing of signatures.
type Signer interface {
	// Sender returns the sender address of the transaction.
	Sender(tx *Transaction) (common.Address, error)

	// SignatureValues returns the raw R, S, V values corresponding to the
	// given signature.
	SignatureValues(tx *Transaction, sig []byte) (r, s, v *big.Int, err error)
	ChainID() *big.Int

	// Hash returns 'signature hash', i.e. the transaction hash that is signed by the
	// private key. This hash does not uniquely identify the transaction.
	Hash(tx *Transaction) common.Hash

	// Equal returns true if the given signer is the same as the receiver.
	Equal(Signer) bool
}

// SignerV1 accepts all three transaction formats bound to one chain id.
// Unprotected legacy transactions are accepted as well.
type SignerV1 struct {
	chainId, chainIdMul *big.Int
}

// NewSigner instantiates a new signer object
func NewSigner(chainId *big.Int) Signer {
	if chainId == nil {
		chainId = new(big.Int)
	}
	return SignerV1{
		chainId:    chainId,
		chainIdMul: new(big.Int).Mul(chainId, big.NewInt(2)),
	}
}

func (s SignerV1) Sender(tx *Transaction) (common.Address, error) {
	if tx.Protected() && tx.inner.chainID().Cmp(s.chainId) != 0 {
		return common.Address{}, fmt.Errorf("%w: have %d want %d", ErrInvalidChainId, tx.inner.chainID(), s.chainId)
	}
	// Protected transactions carry the signer's chain id at this point, so
	// the transaction's own preimage is the one that was signed.
	pub, err := recoverPubkey(tx.SigningHash(), tx.inner)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyBytesToAddress(pub), nil
}

func (s SignerV1) Equal(s2 Signer) bool {
	x, ok := s2.(SignerV1)
	return ok && x.chainId.Cmp(s.chainId) == 0
}

func (s SignerV1) SignatureValues(tx *Transaction, sig []byte) (R, S, V *big.Int, err error) {
	if len(sig) != crypto.SignatureLength {
		return nil, nil, nil, fmt.Errorf("wrong size for signature: got %d, want %d", len(sig), crypto.SignatureLength)
	}
	R = new(big.Int).SetBytes(sig[:32])
	S = new(big.Int).SetBytes(sig[32:64])
	switch tx.Type() {
	case LegacyTxType:
		if s.chainId.Sign() == 0 {
			V = big.NewInt(int64(sig[64] + 27))
		} else {
			V = big.NewInt(int64(sig[64] + 35))
			V.Add(V, s.chainIdMul)
		}
	default:
		// Check that chain ID of tx matches the signer. We also accept ID zero here,
		// because it indicates that the chain ID was not specified in the tx.
		if tx.inner.chainID() != nil && tx.inner.chainID().Sign() != 0 && tx.inner.chainID().Cmp(s.chainId) != 0 {
			return nil, nil, nil, ErrInvalidChainId
		}
		V = big.NewInt(int64(sig[64]))
	}
	return R, S, V, nil
}

// Hash returns the hash to be signed by the sender.
// It does not uniquely identify the transaction.
func (s SignerV1) Hash(tx *Transaction) common.Hash {
	return tx.inner.sigHash(s.chainId)
}

func (s SignerV1) ChainID() *big.Int {
	return s.chainId
}

// recoverPubkey rebuilds the 65-byte r || s || parity signature of inner and
// recovers the uncompressed public key that produced it over sighash.
func recoverPubkey(sighash common.Hash, inner TxData) ([]byte, error) {
	_, R, S := inner.rawSignatureValues()
	if R == nil || S == nil {
		return nil, ErrInvalidSig
	}
	parity, err := inner.recoveryByte()
	if err != nil {
		return nil, err
	}
	if !crypto.ValidateSignatureValues(parity, R, S, true) {
		return nil, ErrInvalidSig
	}
	// encode the signature in uncompressed format
	r, s := R.Bytes(), S.Bytes()
	sig := make([]byte, crypto.SignatureLength)
	copy(sig[32-len(r):32], r)
	copy(sig[64-len(s):64], s)
	sig[crypto.RecoveryIDOffset] = parity
	// recover the public key from the signature
	pub, err := crypto.Ecrecover(sighash[:], sig)
	if err != nil {
		return nil, err
	}
	if len(pub) == 0 || pub[0] != 4 {
		return nil, errors.New("invalid public key")
	}
	return pub, nil
}
