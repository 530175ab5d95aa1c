// Copyright 2020 The go-ethereum Authors
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
	"math/big"

	"github.com/dominant-strategies/quai-evm/common"
)

// LegacyTx is the transaction data of the original Ethereum transactions.
// On the wire it is the 9-field list [nonce, gasPrice, gas, to, value, data, v, r, s].
type LegacyTx struct {
	Nonce    uint64          // nonce of sender account
	GasPrice *big.Int        // wei per gas
	Gas      uint64          // gas limit
	To       *common.Address `rlp:"nil"` // nil means contract creation
	Value    *big.Int        // wei amount
	Data     []byte          // contract invocation input data
	V, R, S  *big.Int        // signature values
}

// legacyFieldCount is the number of list items of an encoded legacy transaction.
const legacyFieldCount = 9

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *LegacyTx) copy() TxData {
	cpy := &LegacyTx{
		Nonce: tx.Nonce,
		To:    copyAddressPtr(tx.To),
		Data:  common.CopyBytes(tx.Data),
		Gas:   tx.Gas,
		// These are initialized below.
		Value:    new(big.Int),
		GasPrice: new(big.Int),
		V:        new(big.Int),
		R:        new(big.Int),
		S:        new(big.Int),
	}
	if tx.Value != nil {
		cpy.Value.Set(tx.Value)
	}
	if tx.GasPrice != nil {
		cpy.GasPrice.Set(tx.GasPrice)
	}
	if tx.V != nil {
		cpy.V.Set(tx.V)
	}
	if tx.R != nil {
		cpy.R.Set(tx.R)
	}
	if tx.S != nil {
		cpy.S.Set(tx.S)
	}
	return cpy
}

// accessors for innerTx.
func (tx *LegacyTx) txType() byte           { return LegacyTxType }
func (tx *LegacyTx) chainID() *big.Int      { return deriveChainID(tx.V) }
func (tx *LegacyTx) accessList() AccessList { return nil }
func (tx *LegacyTx) data() []byte           { return tx.Data }
func (tx *LegacyTx) gas() uint64            { return tx.Gas }
func (tx *LegacyTx) gasPrice() *big.Int     { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *big.Int    { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *big.Int    { return tx.GasPrice }
func (tx *LegacyTx) value() *big.Int        { return tx.Value }
func (tx *LegacyTx) nonce() uint64          { return tx.Nonce }
func (tx *LegacyTx) to() *common.Address    { return tx.To }

func (tx *LegacyTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *LegacyTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

// sigHash hashes the 9-field EIP-155 preimage when chainID is non-zero and
// the 6-field pre-EIP-155 preimage otherwise.
func (tx *LegacyTx) sigHash(chainID *big.Int) common.Hash {
	if chainID != nil && chainID.Sign() != 0 {
		return rlpHash([]interface{}{
			tx.Nonce,
			tx.GasPrice,
			tx.Gas,
			tx.To,
			tx.Value,
			tx.Data,
			chainID, uint(0), uint(0),
		})
	}
	return rlpHash([]interface{}{
		tx.Nonce,
		tx.GasPrice,
		tx.Gas,
		tx.To,
		tx.Value,
		tx.Data,
	})
}

func (tx *LegacyTx) recoveryByte() (byte, error) {
	if tx.V == nil || !tx.V.IsUint64() {
		return 0, ErrInvalidSig
	}
	return RecoveryID(tx.V.Uint64()).Standard()
}

// RecoveryID is the v value of a legacy signature. It is either 27/28 or,
// for EIP-155 replay-protected signatures, chainID*2 + 35/36.
type RecoveryID uint64

// Standard returns the recovery parity (0 or 1) encoded in v. Values other
// than 27, 28 or anything above 36 are rejected.
func (v RecoveryID) Standard() (byte, error) {
	if v == 27 || v == 28 || v > 36 {
		return byte((v - 1) % 2), nil
	}
	return 0, ErrInvalidSig
}

// ChainID returns the chain id protected by v, if any.
func (v RecoveryID) ChainID() (uint64, bool) {
	if v > 36 {
		return uint64(v-35) / 2, true
	}
	return 0, false
}

// deriveChainID derives the chain id from the given v parameter.
// Unprotected signatures yield zero.
func deriveChainID(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	if v.IsUint64() {
		id, _ := RecoveryID(v.Uint64()).ChainID()
		return new(big.Int).SetUint64(id)
	}
	v = new(big.Int).Sub(v, big.NewInt(35))
	return v.Rsh(v, 1)
}

func copyAddressPtr(a *common.Address) *common.Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}
