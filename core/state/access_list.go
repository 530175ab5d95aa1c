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

package state

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/dominant-strategies/quai-evm/common"
)

// slotKey identifies a storage slot in the access list.
type slotKey struct {
	address common.Address
	slot    common.Hash
}

// accessList is the set of accounts and storage slots touched by the running
// transaction, as introduced by EIP-2929.
type accessList struct {
	addresses mapset.Set // set of common.Address
	slots     mapset.Set // set of slotKey
}

// newAccessList creates a new accessList.
func newAccessList() *accessList {
	return &accessList{
		addresses: mapset.NewThreadUnsafeSet(),
		slots:     mapset.NewThreadUnsafeSet(),
	}
}

// ContainsAddress returns true if the address is in the access list.
func (al *accessList) ContainsAddress(address common.Address) bool {
	return al.addresses.Contains(address)
}

// Contains checks if a slot within an account is present in the access list,
// returning separate flags for the presence of the account and the slot
// respectively.
func (al *accessList) Contains(address common.Address, slot common.Hash) (addressPresent bool, slotPresent bool) {
	return al.addresses.Contains(address), al.slots.Contains(slotKey{address, slot})
}

// Copy creates an independent copy of an accessList.
func (al *accessList) Copy() *accessList {
	return &accessList{
		addresses: al.addresses.Clone(),
		slots:     al.slots.Clone(),
	}
}

// AddAddress adds an address to the access list, and returns 'true' if the
// operation caused a change (addr was not previously in the list).
func (al *accessList) AddAddress(address common.Address) bool {
	return al.addresses.Add(address)
}

// AddSlot adds the specified (addr, slot) combo to the access list.
// Return values are:
// - address added
// - slot added
// For any 'true' value returned, a corresponding journal entry must be made.
func (al *accessList) AddSlot(address common.Address, slot common.Hash) (addrChange bool, slotChange bool) {
	addrChange = al.addresses.Add(address)
	slotChange = al.slots.Add(slotKey{address, slot})
	return addrChange, slotChange
}

// DeleteSlot removes an (address, slot)-tuple from the access list.
// This operation needs to be performed in the same order as the addition happened.
// This method is meant to be used by the journal, which maintains ordering of
// operations.
func (al *accessList) DeleteSlot(address common.Address, slot common.Hash) {
	al.slots.Remove(slotKey{address, slot})
}

// DeleteAddress removes an address from the access list. This operation
// needs to be performed in the same order as the addition happened.
// This method is meant to be used by the journal, which maintains ordering of
// operations.
func (al *accessList) DeleteAddress(address common.Address) {
	al.addresses.Remove(address)
}
