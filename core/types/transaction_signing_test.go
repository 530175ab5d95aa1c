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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/crypto"
)

func TestSigningAllFormats(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	signer := NewSigner(big.NewInt(18))

	txs := []TxData{
		&LegacyTx{Nonce: 0, To: &addr, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(1)},
		&AccessListTx{
			ChainID: big.NewInt(18), Nonce: 1, To: &addr, Gas: 30000, GasPrice: big.NewInt(1), Value: big.NewInt(1),
			AccessList: AccessList{{Address: addr, StorageKeys: []common.Hash{{0x01}}}},
		},
		&DynamicFeeTx{
			ChainID: big.NewInt(18), Nonce: 2, Gas: 60000, GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(2),
			Value: big.NewInt(0), Data: []byte{0x60, 0x00},
		},
	}
	for _, txdata := range txs {
		tx, err := SignNewTx(key, signer, txdata)
		require.NoError(t, err)

		from, err := Sender(signer, tx)
		require.NoError(t, err)
		assert.Equal(t, addr, from, "type %d", tx.Type())

		// the signature survives the wire
		enc, err := tx.MarshalBinary()
		require.NoError(t, err)
		dec, err := DecodeTransaction(enc)
		require.NoError(t, err)
		assert.Equal(t, tx.Hash(), dec.Hash())
		assert.Equal(t, big.NewInt(18), dec.ChainId())

		decFrom, err := dec.SenderAddress()
		require.NoError(t, err)
		assert.Equal(t, addr, decFrom, "type %d", tx.Type())
	}
}

func TestSignerCachesSender(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewSigner(big.NewInt(1))
	tx := MustSignNewTx(key, signer, &LegacyTx{Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})

	first, err := Sender(signer, tx)
	require.NoError(t, err)
	second, err := Sender(NewSigner(big.NewInt(1)), tx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, tx.Action().IsCreate())
}

func TestUnprotectedLegacySigning(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewSigner(nil)
	to := common.HexToAddress("0x02")
	tx := MustSignNewTx(key, signer, &LegacyTx{To: &to, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})

	v, _, _ := tx.RawSignatureValues()
	assert.Contains(t, []uint64{27, 28}, v.Uint64())
	assert.False(t, tx.Protected())

	// any signer accepts an unprotected transaction
	from, err := Sender(NewSigner(big.NewInt(7)), tx)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), from)
}
