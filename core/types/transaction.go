// Copyright 2014 The go-ethereum Authors
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
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/crypto"
)

var (
	ErrEmptyRlp           = errors.New("empty transaction bytes")
	ErrInvalidSig         = errors.New("invalid transaction v, r, s values")
	ErrTxTypeNotSupported = errors.New("transaction type not supported")
	ErrInvalidFieldCount  = errors.New("invalid transaction field count")
	ErrTrailingBytes      = errors.New("trailing bytes after transaction")
)

// Transaction types.
const (
	LegacyTxType = iota
	AccessListTxType
	DynamicFeeTxType
)

var encodeBufferPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// Transaction is a signed Ethereum transaction in one of the three supported
// wire formats.
type Transaction struct {
	inner TxData    // Consensus contents of a transaction
	time  time.Time // Time first decoded locally

	// caches
	hash atomic.Value
	size atomic.Value
	from atomic.Value
}

// NewTx creates a new transaction.
func NewTx(inner TxData) *Transaction {
	tx := new(Transaction)
	tx.setDecoded(inner.copy(), 0)
	return tx
}

// TxData is the underlying data of a transaction.
//
// This is implemented by LegacyTx, AccessListTx and DynamicFeeTx.
type TxData interface {
	txType() byte // returns the type ID
	copy() TxData // creates a deep copy and initializes all fields

	chainID() *big.Int
	accessList() AccessList
	data() []byte
	gas() uint64
	gasPrice() *big.Int
	gasTipCap() *big.Int
	gasFeeCap() *big.Int
	value() *big.Int
	nonce() uint64
	to() *common.Address

	rawSignatureValues() (v, r, s *big.Int)
	setSignatureValues(chainID, v, r, s *big.Int)

	// sigHash returns the hash of the signing preimage for chainID.
	sigHash(chainID *big.Int) common.Hash
	// recoveryByte returns the 0/1 parity carried by v.
	recoveryByte() (byte, error)
}

// DecodeTransaction decodes a wire-encoded signed transaction. The leading
// byte selects the format: 0x01 is an EIP-2930 access list transaction, 0x02
// an EIP-1559 fee market transaction, and anything else is read as a legacy
// 9-field list. A typed transaction wrapped in an RLP byte string, as it
// appears inside blocks and network messages, is unwrapped first.
func DecodeTransaction(b []byte) (*Transaction, error) {
	tx := new(Transaction)
	if err := tx.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return tx, nil
}

// EncodeRLP implements rlp.Encoder. Typed transactions are wrapped in a byte string.
func (tx *Transaction) EncodeRLP(w io.Writer) error {
	if tx.Type() == LegacyTxType {
		return rlp.Encode(w, tx.inner)
	}
	buf := encodeBufferPool.Get().(*bytes.Buffer)
	defer encodeBufferPool.Put(buf)
	buf.Reset()
	if err := tx.encodeTyped(buf); err != nil {
		return err
	}
	return rlp.Encode(w, buf.Bytes())
}

// encodeTyped writes the canonical encoding of a typed transaction to w.
func (tx *Transaction) encodeTyped(w *bytes.Buffer) error {
	w.WriteByte(tx.Type())
	return rlp.Encode(w, tx.inner)
}

// MarshalBinary returns the canonical encoding of the transaction.
// For legacy transactions, it returns the RLP encoding. For typed
// transactions, it returns the type and payload.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	if tx.Type() == LegacyTxType {
		return rlp.EncodeToBytes(tx.inner)
	}
	var buf bytes.Buffer
	err := tx.encodeTyped(&buf)
	return buf.Bytes(), err
}

// DecodeRLP implements rlp.Decoder
func (tx *Transaction) DecodeRLP(s *rlp.Stream) error {
	raw, err := s.Raw()
	if err != nil {
		return err
	}
	return tx.UnmarshalBinary(raw)
}

// UnmarshalBinary decodes the canonical encoding of transactions.
func (tx *Transaction) UnmarshalBinary(b []byte) error {
	if len(b) == 0 {
		return ErrEmptyRlp
	}
	var (
		inner TxData
		err   error
	)
	switch {
	case b[0] == AccessListTxType || b[0] == DynamicFeeTxType:
		inner, err = decodeTyped(b)
	case b[0] >= 0x80 && b[0] < 0xc0:
		inner, err = decodeEnvelope(b)
	default:
		inner, err = decodeLegacy(b)
	}
	if err != nil {
		return err
	}
	tx.setDecoded(inner, len(b))
	return nil
}

// decodeLegacy decodes rlp([nonce, gasPrice, gas, to, value, data, v, r, s]).
func decodeLegacy(b []byte) (TxData, error) {
	if err := checkFieldCount(b, legacyFieldCount); err != nil {
		return nil, err
	}
	var inner LegacyTx
	if err := rlp.DecodeBytes(b, &inner); err != nil {
		return nil, fmt.Errorf("legacy transaction: %w", err)
	}
	return &inner, nil
}

// decodeTyped decodes a typed transaction from the canonical format.
func decodeTyped(b []byte) (TxData, error) {
	switch b[0] {
	case AccessListTxType:
		if err := checkFieldCount(b[1:], accessListFieldCount); err != nil {
			return nil, err
		}
		var inner AccessListTx
		if err := rlp.DecodeBytes(b[1:], &inner); err != nil {
			return nil, fmt.Errorf("access list transaction: %w", err)
		}
		return &inner, nil
	case DynamicFeeTxType:
		if err := checkFieldCount(b[1:], dynamicFeeFieldCount); err != nil {
			return nil, err
		}
		var inner DynamicFeeTx
		if err := rlp.DecodeBytes(b[1:], &inner); err != nil {
			return nil, fmt.Errorf("dynamic fee transaction: %w", err)
		}
		return &inner, nil
	default:
		return nil, ErrTxTypeNotSupported
	}
}

// decodeEnvelope unwraps a typed transaction carried inside an RLP string.
func decodeEnvelope(b []byte) (TxData, error) {
	content, rest, err := rlp.SplitString(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrTrailingBytes
	}
	if len(content) == 0 {
		return nil, ErrEmptyRlp
	}
	if content[0] != AccessListTxType && content[0] != DynamicFeeTxType {
		return nil, ErrTxTypeNotSupported
	}
	return decodeTyped(content)
}

// checkFieldCount verifies that b is a single RLP list holding want items.
func checkFieldCount(b []byte, want int) error {
	content, rest, err := rlp.SplitList(b)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrTrailingBytes
	}
	n, err := rlp.CountValues(content)
	if err != nil {
		return err
	}
	if n != want {
		return fmt.Errorf("%w: have %d, want %d", ErrInvalidFieldCount, n, want)
	}
	return nil
}

// setDecoded sets the inner transaction and size after decoding.
func (tx *Transaction) setDecoded(inner TxData, size int) {
	tx.inner = inner
	tx.time = time.Now()
	if size > 0 {
		tx.size.Store(common.StorageSize(size))
	}
}

// Type returns the transaction type.
func (tx *Transaction) Type() uint8 {
	return tx.inner.txType()
}

// ChainId returns the chain id of the transaction. Unprotected legacy
// transactions return zero.
func (tx *Transaction) ChainId() *big.Int {
	return new(big.Int).Set(tx.inner.chainID())
}

// Protected reports whether the transaction is bound to a chain id.
func (tx *Transaction) Protected() bool {
	return tx.Type() != LegacyTxType || tx.inner.chainID().Sign() != 0
}

// Data returns the input data of the transaction.
func (tx *Transaction) Data() []byte { return tx.inner.data() }

// AccessList returns the access list of the transaction.
func (tx *Transaction) AccessList() AccessList { return tx.inner.accessList() }

// Gas returns the gas limit of the transaction.
func (tx *Transaction) Gas() uint64 { return tx.inner.gas() }

// GasPrice returns the gas price of the transaction.
func (tx *Transaction) GasPrice() *big.Int { return new(big.Int).Set(tx.inner.gasPrice()) }

// GasTipCap returns the gas tip cap per gas of the transaction.
func (tx *Transaction) GasTipCap() *big.Int { return new(big.Int).Set(tx.inner.gasTipCap()) }

// GasFeeCap returns the fee cap per gas of the transaction.
func (tx *Transaction) GasFeeCap() *big.Int { return new(big.Int).Set(tx.inner.gasFeeCap()) }

// Value returns the ether amount of the transaction.
func (tx *Transaction) Value() *big.Int { return new(big.Int).Set(tx.inner.value()) }

// Nonce returns the sender account nonce of the transaction.
func (tx *Transaction) Nonce() uint64 { return tx.inner.nonce() }

// To returns the recipient address of the transaction.
// For contract-creation transactions, To returns nil.
func (tx *Transaction) To() *common.Address {
	return copyAddressPtr(tx.inner.to())
}

// Action returns what the transaction does: call an address or create a contract.
func (tx *Transaction) Action() Action {
	return Action{to: tx.To()}
}

// Cost returns gas * gasPrice + value.
func (tx *Transaction) Cost() *big.Int {
	total := new(big.Int).Mul(tx.GasPrice(), new(big.Int).SetUint64(tx.Gas()))
	total.Add(total, tx.Value())
	return total
}

// EffectiveGasPrice returns the price paid per unit of gas given the block
// base fee. A nil base fee means the fee market is inactive.
func (tx *Transaction) EffectiveGasPrice(baseFee *big.Int) *big.Int {
	if baseFee == nil || tx.Type() != DynamicFeeTxType {
		return tx.GasPrice()
	}
	price := new(big.Int).Add(tx.inner.gasTipCap(), baseFee)
	if price.Cmp(tx.inner.gasFeeCap()) > 0 {
		return tx.GasFeeCap()
	}
	return price
}

// RawSignatureValues returns the V, R, S signature values of the transaction.
// The return values should not be modified by the caller.
func (tx *Transaction) RawSignatureValues() (v, r, s *big.Int) {
	return tx.inner.rawSignatureValues()
}

// Signature returns the signature carried by the transaction.
func (tx *Transaction) Signature() Signature {
	v, r, s := tx.inner.rawSignatureValues()
	return Signature{V: v, R: r, S: s}
}

// SigningHash returns the hash the sender signed, computed against the chain
// id the transaction itself carries. It does not uniquely identify the
// transaction.
func (tx *Transaction) SigningHash() common.Hash {
	return tx.inner.sigHash(tx.inner.chainID())
}

// SenderPublicKey recovers the 65-byte uncompressed secp256k1 public key of
// the signer from r || s || parity and the signing hash.
func (tx *Transaction) SenderPublicKey() ([]byte, error) {
	return recoverPubkey(tx.SigningHash(), tx.inner)
}

// SenderAddress returns the last 20 bytes of the Keccak-256 digest of the
// recovered public key.
func (tx *Transaction) SenderAddress() (common.Address, error) {
	pub, err := tx.SenderPublicKey()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyBytesToAddress(pub), nil
}

// Hash returns the transaction hash.
func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return hash.(common.Hash)
	}

	var h common.Hash
	if tx.Type() == LegacyTxType {
		h = rlpHash(tx.inner)
	} else {
		h = prefixedRlpHash(tx.Type(), tx.inner)
	}
	tx.hash.Store(h)
	return h
}

// Size returns the true encoded storage size of the transaction, either by
// encoding and returning it, or returning a previously cached value.
func (tx *Transaction) Size() common.StorageSize {
	if size := tx.size.Load(); size != nil {
		return size.(common.StorageSize)
	}
	c := writeCounter(0)
	rlp.Encode(&c, tx.inner)
	size := common.StorageSize(c)
	if tx.Type() != LegacyTxType {
		size += 1 // type byte
	}
	tx.size.Store(size)
	return size
}

// WithSignature returns a new transaction with the given signature.
// This signature needs to be in the [R || S || V] format where V is 0 or 1.
func (tx *Transaction) WithSignature(signer Signer, sig []byte) (*Transaction, error) {
	r, s, v, err := signer.SignatureValues(tx, sig)
	if err != nil {
		return nil, err
	}
	cpy := tx.inner.copy()
	cpy.setSignatureValues(signer.ChainID(), v, r, s)
	return &Transaction{inner: cpy, time: tx.time}, nil
}

// Action is either a call of an existing address or the creation of a new
// contract.
type Action struct {
	to *common.Address
}

// CallAction returns the action of calling addr.
func CallAction(addr common.Address) Action { return Action{to: &addr} }

// CreateAction returns the contract creation action.
func CreateAction() Action { return Action{} }

// IsCreate reports whether the action creates a contract.
func (a Action) IsCreate() bool { return a.to == nil }

// Target returns the called address, or the zero address for creations.
func (a Action) Target() common.Address {
	if a.to == nil {
		return common.Address{}
	}
	return *a.to
}

func (a Action) String() string {
	if a.to == nil {
		return "create"
	}
	return "call " + a.to.Hex()
}

// Signature is the recovery indicator and the two scalars of an ECDSA
// signature as carried on the wire.
type Signature struct {
	V, R, S *big.Int
}

// Transactions is a list of transactions.
type Transactions []*Transaction

// Len returns the length of s.
func (s Transactions) Len() int { return len(s) }

// writeCounter counts the bytes written to it.
type writeCounter common.StorageSize

func (c *writeCounter) Write(b []byte) (int, error) {
	*c += writeCounter(len(b))
	return len(b), nil
}

// Message is a fully derived transaction, ready to be applied to the state.
type Message struct {
	to         *common.Address
	from       common.Address
	nonce      uint64
	amount     *big.Int
	gasLimit   uint64
	gasPrice   *big.Int
	gasFeeCap  *big.Int
	gasTipCap  *big.Int
	data       []byte
	accessList AccessList
	txtype     byte
	hash       common.Hash
}

// NewMessage assembles a message without a backing transaction.
func NewMessage(from common.Address, to *common.Address, nonce uint64, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte, accessList AccessList) Message {
	return Message{
		from:       from,
		to:         to,
		nonce:      nonce,
		amount:     amount,
		gasLimit:   gasLimit,
		gasPrice:   gasPrice,
		gasFeeCap:  gasPrice,
		gasTipCap:  gasPrice,
		data:       data,
		accessList: accessList,
	}
}

// AsMessage returns the transaction as a core message. The sender is
// recovered through s, which also checks the chain id.
func (tx *Transaction) AsMessage(s Signer, baseFee *big.Int) (Message, error) {
	msg := Message{
		nonce:      tx.Nonce(),
		gasLimit:   tx.Gas(),
		gasPrice:   tx.EffectiveGasPrice(baseFee),
		gasFeeCap:  tx.GasFeeCap(),
		gasTipCap:  tx.GasTipCap(),
		to:         tx.To(),
		amount:     tx.Value(),
		data:       tx.Data(),
		accessList: tx.AccessList(),
		txtype:     tx.Type(),
		hash:       tx.Hash(),
	}
	var err error
	msg.from, err = Sender(s, tx)
	return msg, err
}

func (m Message) From() common.Address   { return m.from }
func (m Message) To() *common.Address    { return m.to }
func (m Message) GasPrice() *big.Int     { return m.gasPrice }
func (m Message) GasFeeCap() *big.Int    { return m.gasFeeCap }
func (m Message) GasTipCap() *big.Int    { return m.gasTipCap }
func (m Message) Value() *big.Int        { return m.amount }
func (m Message) Gas() uint64            { return m.gasLimit }
func (m Message) Nonce() uint64          { return m.nonce }
func (m Message) Data() []byte           { return m.data }
func (m Message) AccessList() AccessList { return m.accessList }
func (m Message) Type() byte             { return m.txtype }
func (m Message) Hash() common.Hash      { return m.hash }
