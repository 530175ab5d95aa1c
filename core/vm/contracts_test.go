// Copyright 2017 The go-ethereum Authors
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

package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/crypto"
	"github.com/dominant-strategies/quai-evm/params"
)

// precompiledTest defines the input/output pairs for precompiled contract tests.
type precompiledTest struct {
	Name     string
	Input    []byte
	Expected []byte
	Gas      uint64
}

func testPrecompiled(t *testing.T, addr byte, test precompiledTest) {
	t.Helper()
	p, ok := ActivePrecompile(common.BytesToAddress([]byte{addr}))
	require.True(t, ok)

	require.Equal(t, test.Gas, p.RequiredGas(test.Input), test.Name)
	res, gasLeft, err := RunPrecompiledContract(p, test.Input, test.Gas+100)
	require.NoError(t, err, test.Name)
	require.Equal(t, uint64(100), gasLeft, test.Name)
	require.Equal(t, test.Expected, res, test.Name)

	_, gasLeft, err = RunPrecompiledContract(p, test.Input, test.Gas-1)
	require.ErrorIs(t, err, ErrOutOfGas, test.Name)
	require.Zero(t, gasLeft, test.Name)
}

// ecrecoverInput lays out (hash, v, r, s) the way the precompile reads it.
func ecrecoverInput(hash []byte, sig []byte, v byte) []byte {
	input := make([]byte, 128)
	copy(input, hash)
	input[63] = v
	copy(input[64:], sig[:64])
	return input
}

func TestPrecompiledEcrecover(t *testing.T) {
	key, err := crypto.HexToECDSA("4646464646464646464646464646464646464646464646464646464646464646")
	require.NoError(t, err)
	hash := crypto.Keccak256([]byte("quai-evm"))
	sig, err := crypto.Sign(hash, key)
	require.NoError(t, err)

	valid := ecrecoverInput(hash, sig, sig[64]+27)
	dirtyV := ecrecoverInput(hash, sig, sig[64]+27)
	dirtyV[40] = 1
	flippedV := ecrecoverInput(hash, sig, 28-sig[64])

	signer := common.HexToAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F")
	require.Equal(t, signer, crypto.PubkeyToAddress(key.PublicKey))

	for _, test := range []precompiledTest{
		{Name: "valid", Input: valid, Expected: common.LeftPadBytes(signer.Bytes(), 32), Gas: params.EcrecoverGas},
		{Name: "v=29", Input: ecrecoverInput(hash, sig, 29), Expected: nil, Gas: params.EcrecoverGas},
		{Name: "v=0", Input: ecrecoverInput(hash, sig, 0), Expected: nil, Gas: params.EcrecoverGas},
		{Name: "garbage in v padding", Input: dirtyV, Expected: nil, Gas: params.EcrecoverGas},
		// s is missing and read as zero
		{Name: "short input", Input: valid[:96], Expected: nil, Gas: params.EcrecoverGas},
		{Name: "empty input", Input: nil, Expected: nil, Gas: params.EcrecoverGas},
	} {
		testPrecompiled(t, 1, test)
	}

	// The other parity recovers some key, never the signer.
	p, _ := ActivePrecompile(common.BytesToAddress([]byte{1}))
	res, err := p.Run(flippedV)
	require.NoError(t, err)
	require.NotEqual(t, common.LeftPadBytes(signer.Bytes(), 32), res)

	// The input is left untouched.
	before := common.CopyBytes(valid)
	_, err = p.Run(valid)
	require.NoError(t, err)
	require.Equal(t, before, valid)
}

func TestPrecompiledSha256(t *testing.T) {
	for _, test := range []precompiledTest{
		{
			Name:     "empty",
			Input:    nil,
			Expected: common.FromHex("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"),
			Gas:      params.Sha256BaseGas,
		},
		{
			Name:     "abc",
			Input:    []byte("abc"),
			Expected: common.FromHex("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"),
			Gas:      params.Sha256BaseGas + params.Sha256PerWordGas,
		},
		{
			Name:     "two words",
			Input:    make([]byte, 33),
			Expected: sha256Of(make([]byte, 33)),
			Gas:      params.Sha256BaseGas + 2*params.Sha256PerWordGas,
		},
	} {
		testPrecompiled(t, 2, test)
	}
}

func TestPrecompiledRipemd160(t *testing.T) {
	for _, test := range []precompiledTest{
		{
			Name:     "empty",
			Input:    nil,
			Expected: common.FromHex("0000000000000000000000009c1185a5c5e9fc54612808977ee8f548b2258d31"),
			Gas:      params.Ripemd160BaseGas,
		},
		{
			Name:     "abc",
			Input:    []byte("abc"),
			Expected: common.FromHex("0000000000000000000000008eb208f7e05d987a9b044a8e98c6b087f15a0bfc"),
			Gas:      params.Ripemd160BaseGas + params.Ripemd160PerWordGas,
		},
		{
			Name:     "exactly one word",
			Input:    make([]byte, 32),
			Expected: ripemd160Of(make([]byte, 32)),
			Gas:      params.Ripemd160BaseGas + params.Ripemd160PerWordGas,
		},
	} {
		testPrecompiled(t, 3, test)
	}
}

func TestPrecompiledIdentity(t *testing.T) {
	for _, test := range []precompiledTest{
		{Name: "empty", Input: nil, Expected: nil, Gas: params.IdentityBaseGas},
		{Name: "hello", Input: []byte("hello"), Expected: []byte("hello"), Gas: params.IdentityBaseGas + params.IdentityPerWordGas},
		{Name: "65 bytes", Input: make([]byte, 65), Expected: make([]byte, 65), Gas: params.IdentityBaseGas + 3*params.IdentityPerWordGas},
	} {
		testPrecompiled(t, 4, test)
	}
}

func TestActivePrecompile(t *testing.T) {
	for _, addr := range PrecompiledAddresses {
		_, ok := ActivePrecompile(addr)
		require.True(t, ok, addr.Hex())
	}
	_, ok := ActivePrecompile(common.BytesToAddress([]byte{5}))
	require.False(t, ok)
	_, ok = ActivePrecompile(common.Address{})
	require.False(t, ok)
}

func sha256Of(b []byte) []byte {
	out, _ := (&sha256hash{}).Run(b)
	return out
}

func ripemd160Of(b []byte) []byte {
	out, _ := (&ripemd160hash{}).Run(b)
	return out
}
