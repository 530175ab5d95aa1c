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
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dominant-strategies/quai-evm/common"
)

const (
	// ReceiptStatusFailed is the status code of a transaction if execution failed.
	ReceiptStatusFailed = uint64(0)

	// ReceiptStatusSuccessful is the status code of a transaction if execution succeeded.
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt represents the results of a transaction.
type Receipt struct {
	Type              uint8  `json:"type,omitempty"`
	Status            uint64 `json:"status"`
	CumulativeGasUsed uint64 `json:"cumulativeGasUsed" gencodec:"required"`
	Logs              Logs   `json:"logs"              gencodec:"required"`

	// Implementation fields: These fields are added when processing a transaction.
	// They are stored in the state database.
	TxHash          common.Hash    `json:"transactionHash" gencodec:"required"`
	ContractAddress common.Address `json:"contractAddress"`
	GasUsed         uint64         `json:"gasUsed" gencodec:"required"`
	ReturnData      []byte         `json:"returnData,omitempty"`
	// PostState is the state root after the transaction was committed.
	PostState common.Hash `json:"root"`
}

// storedReceiptRLP is the storage encoding of a receipt.
type storedReceiptRLP struct {
	Type              uint8
	Status            uint64
	CumulativeGasUsed uint64
	TxHash            common.Hash
	ContractAddress   common.Address
	GasUsed           uint64
	ReturnData        []byte
	PostState         common.Hash
	Logs              []*Log
}

// ReceiptForStorage is a wrapper around a Receipt with RLP serialization
// that omits derived log fields.
type ReceiptForStorage Receipt

// EncodeRLP implements rlp.Encoder.
func (r *ReceiptForStorage) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &storedReceiptRLP{
		Type:              r.Type,
		Status:            r.Status,
		CumulativeGasUsed: r.CumulativeGasUsed,
		TxHash:            r.TxHash,
		ContractAddress:   r.ContractAddress,
		GasUsed:           r.GasUsed,
		ReturnData:        r.ReturnData,
		PostState:         r.PostState,
		Logs:              r.Logs,
	})
}

// DecodeRLP implements rlp.Decoder, and loads the receipt fields from an
// RLP stream. Log derived fields are restored from the receipt.
func (r *ReceiptForStorage) DecodeRLP(s *rlp.Stream) error {
	var stored storedReceiptRLP
	if err := s.Decode(&stored); err != nil {
		return err
	}
	r.Type = stored.Type
	r.Status = stored.Status
	r.CumulativeGasUsed = stored.CumulativeGasUsed
	r.TxHash = stored.TxHash
	r.ContractAddress = stored.ContractAddress
	r.GasUsed = stored.GasUsed
	r.ReturnData = stored.ReturnData
	r.PostState = stored.PostState
	r.Logs = stored.Logs
	for i, log := range r.Logs {
		log.TxHash = r.TxHash
		log.Index = uint(i)
	}
	return nil
}
