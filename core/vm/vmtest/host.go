// Package vmtest provides an in-memory implementation of vm.Host for tests.
package vmtest

import (
	"math/big"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/crypto"
	"github.com/dominant-strategies/quai-evm/params"
)

// Account is one account of the in-memory ledger.
type Account struct {
	Nonce   uint64
	Balance *big.Int
	Code    []byte
	Storage map[common.Hash]common.Hash
}

func (a *Account) copy() *Account {
	cpy := &Account{
		Nonce:   a.Nonce,
		Balance: new(big.Int).Set(a.Balance),
		Code:    a.Code,
		Storage: make(map[common.Hash]common.Hash, len(a.Storage)),
	}
	for k, v := range a.Storage {
		cpy.Storage[k] = v
	}
	return cpy
}

// Log is a log record emitted during execution.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

type state struct {
	accounts     map[common.Address]*Account
	logs         []Log
	destructed   map[common.Address]common.Address
	warmAccounts map[common.Address]bool
	warmSlots    map[common.Address]map[common.Hash]bool
}

func (s *state) copy() *state {
	cpy := &state{
		accounts:     make(map[common.Address]*Account, len(s.accounts)),
		logs:         append([]Log(nil), s.logs...),
		destructed:   make(map[common.Address]common.Address, len(s.destructed)),
		warmAccounts: make(map[common.Address]bool, len(s.warmAccounts)),
		warmSlots:    make(map[common.Address]map[common.Hash]bool, len(s.warmSlots)),
	}
	for addr, acc := range s.accounts {
		cpy.accounts[addr] = acc.copy()
	}
	for addr, beneficiary := range s.destructed {
		cpy.destructed[addr] = beneficiary
	}
	for addr := range s.warmAccounts {
		cpy.warmAccounts[addr] = true
	}
	for addr, slots := range s.warmSlots {
		cpy.warmSlots[addr] = make(map[common.Hash]bool, len(slots))
		for slot := range slots {
			cpy.warmSlots[addr][slot] = true
		}
	}
	return cpy
}

// Host is a vm.Host over maps. Nested calls re-enter EVM and roll back by
// restoring a deep copy taken before the call.
type Host struct {
	EVM         *vm.EVM
	TxContext   vm.TxContext
	BlockHashes map[uint64]common.Hash

	// Calls records every message handed to Call, in order.
	Calls []vm.Message

	state    *state
	original map[common.Address]map[common.Hash]common.Hash
}

// New returns an empty ledger whose nested calls run on evm.
func New(evm *vm.EVM) *Host {
	return &Host{
		EVM:         evm,
		TxContext:   vm.TxContext{GasPrice: new(big.Int), Difficulty: new(big.Int), ChainID: big.NewInt(1), BaseFee: new(big.Int)},
		BlockHashes: make(map[uint64]common.Hash),
		state: &state{
			accounts:     make(map[common.Address]*Account),
			destructed:   make(map[common.Address]common.Address),
			warmAccounts: make(map[common.Address]bool),
			warmSlots:    make(map[common.Address]map[common.Hash]bool),
		},
		original: make(map[common.Address]map[common.Hash]common.Hash),
	}
}

// Account returns the account at addr, creating it if missing.
func (h *Host) Account(addr common.Address) *Account {
	acc, ok := h.state.accounts[addr]
	if !ok {
		acc = &Account{Balance: new(big.Int), Storage: make(map[common.Hash]common.Hash)}
		h.state.accounts[addr] = acc
	}
	return acc
}

// Deploy installs code at addr.
func (h *Host) Deploy(addr common.Address, code []byte) {
	h.Account(addr).Code = code
}

// Logs returns the logs emitted so far.
func (h *Host) Logs() []Log { return h.state.logs }

// Destructed returns the beneficiary of every self-destructed account.
func (h *Host) Destructed() map[common.Address]common.Address { return h.state.destructed }

func (h *Host) AccountExists(addr common.Address) bool {
	_, ok := h.state.accounts[addr]
	return ok
}

func (h *Host) GetStorage(addr common.Address, key common.Hash) common.Hash {
	if acc, ok := h.state.accounts[addr]; ok {
		return acc.Storage[key]
	}
	return common.Hash{}
}

func (h *Host) SetStorage(addr common.Address, key common.Hash, value common.Hash) vm.StorageStatus {
	acc := h.Account(addr)
	current := acc.Storage[key]
	if _, ok := h.original[addr]; !ok {
		h.original[addr] = make(map[common.Hash]common.Hash)
	}
	original, ok := h.original[addr][key]
	if !ok {
		original = current
		h.original[addr][key] = current
	}
	acc.Storage[key] = value

	switch {
	case current == value:
		return vm.StorageUnchanged
	case original != current:
		return vm.StorageModifiedAgain
	case original == (common.Hash{}):
		return vm.StorageAdded
	case value == (common.Hash{}):
		return vm.StorageDeleted
	}
	return vm.StorageModified
}

func (h *Host) GetBalance(addr common.Address) *big.Int {
	if acc, ok := h.state.accounts[addr]; ok {
		return new(big.Int).Set(acc.Balance)
	}
	return new(big.Int)
}

func (h *Host) GetCodeSize(addr common.Address) uint64 {
	if acc, ok := h.state.accounts[addr]; ok {
		return uint64(len(acc.Code))
	}
	return 0
}

func (h *Host) GetCodeHash(addr common.Address) common.Hash {
	if acc, ok := h.state.accounts[addr]; ok {
		return crypto.Keccak256Hash(acc.Code)
	}
	return common.Hash{}
}

func (h *Host) CopyCode(addr common.Address, offset uint64, buffer []byte) uint64 {
	acc, ok := h.state.accounts[addr]
	if !ok || offset >= uint64(len(acc.Code)) {
		return 0
	}
	return uint64(copy(buffer, acc.Code[offset:]))
}

func (h *Host) SelfDestruct(addr common.Address, beneficiary common.Address) {
	acc := h.Account(addr)
	h.Account(beneficiary).Balance.Add(h.Account(beneficiary).Balance, acc.Balance)
	acc.Balance = new(big.Int)
	h.state.destructed[addr] = beneficiary
}

func (h *Host) GetBlockHash(number uint64) common.Hash {
	return h.BlockHashes[number]
}

func (h *Host) EmitLog(addr common.Address, data []byte, topics []common.Hash) {
	h.state.logs = append(h.state.logs, Log{Address: addr, Topics: topics, Data: common.CopyBytes(data)})
}

func (h *Host) AccessAccount(addr common.Address) vm.AccessStatus {
	if h.state.warmAccounts[addr] {
		return vm.AccessWarm
	}
	h.state.warmAccounts[addr] = true
	return vm.AccessCold
}

func (h *Host) AccessStorage(addr common.Address, key common.Hash) vm.AccessStatus {
	slots, ok := h.state.warmSlots[addr]
	if !ok {
		slots = make(map[common.Hash]bool)
		h.state.warmSlots[addr] = slots
	}
	if slots[key] {
		return vm.AccessWarm
	}
	slots[key] = true
	return vm.AccessCold
}

func (h *Host) GetTxContext() vm.TxContext {
	return h.TxContext
}

// Call runs a nested message. Any failure restores the ledger as it was
// before the message.
func (h *Host) Call(msg *vm.Message) *vm.Output {
	h.Calls = append(h.Calls, *msg)
	snapshot := h.state.copy()

	var out *vm.Output
	if msg.Kind.IsCreate() {
		out = h.create(msg)
	} else {
		out = h.call(msg)
	}
	if !out.Success() {
		h.state = snapshot
	}
	return out
}

func (h *Host) transfer(from, to common.Address, value *big.Int) bool {
	if value == nil || value.Sign() == 0 {
		h.Account(to)
		return true
	}
	if h.GetBalance(from).Cmp(value) < 0 {
		return false
	}
	h.Account(from).Balance.Sub(h.Account(from).Balance, value)
	h.Account(to).Balance.Add(h.Account(to).Balance, value)
	return true
}

func (h *Host) call(msg *vm.Message) *vm.Output {
	if msg.Kind != vm.DelegateCall && !h.transfer(msg.Sender, msg.Recipient, msg.Value) {
		return vm.Failed(vm.StatusInsufficientBalance, msg.Gas)
	}
	if p, ok := vm.ActivePrecompile(msg.CodeAddress); ok {
		ret, gasLeft, err := vm.RunPrecompiledContract(p, msg.Input, msg.Gas)
		if err != nil {
			return vm.Failed(vm.StatusFromError(err), 0)
		}
		return &vm.Output{Status: vm.StatusSuccess, GasLeft: gasLeft, Output: ret}
	}
	var code []byte
	if acc, ok := h.state.accounts[msg.CodeAddress]; ok {
		code = acc.Code
	}
	return h.EVM.Execute(h, msg, code)
}

func (h *Host) create(msg *vm.Message) *vm.Output {
	sender := h.Account(msg.Sender)
	var addr common.Address
	if msg.Kind == vm.Create2 {
		addr = crypto.CreateAddress2(msg.Sender, msg.Salt, crypto.Keccak256(msg.Input))
	} else {
		addr = crypto.CreateAddress(msg.Sender, sender.Nonce)
	}
	sender.Nonce++

	if acc, ok := h.state.accounts[addr]; ok && (acc.Nonce != 0 || len(acc.Code) != 0) {
		return vm.Failed(vm.StatusFailure, 0)
	}
	if !h.transfer(msg.Sender, addr, msg.Value) {
		return vm.Failed(vm.StatusInsufficientBalance, msg.Gas)
	}
	h.Account(addr).Nonce = 1

	initMsg := *msg
	initMsg.Recipient, initMsg.CodeAddress, initMsg.Input = addr, addr, nil
	out := h.EVM.Execute(h, &initMsg, msg.Input)
	if !out.Success() {
		return out
	}
	if len(out.Output) > params.MaxCodeSize || (len(out.Output) > 0 && out.Output[0] == 0xEF) {
		return vm.Failed(vm.StatusContractValidationFailure, 0)
	}
	// Runtime code with undefined instructions could never run.
	if _, err := vm.Analyse(out.Output); err != nil {
		return vm.Failed(vm.StatusContractValidationFailure, 0)
	}
	deposit := uint64(len(out.Output)) * params.CreateDataGas
	if out.GasLeft < deposit {
		return vm.Failed(vm.StatusOutOfGas, 0)
	}
	h.Account(addr).Code = common.CopyBytes(out.Output)
	return &vm.Output{Status: vm.StatusSuccess, GasLeft: out.GasLeft - deposit, CreatedAddress: &addr}
}
