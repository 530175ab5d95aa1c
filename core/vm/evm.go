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

package vm

import (
	"slices"
	"time"

	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

// Config are the configuration options for the Interpreter
type Config struct {
	Debug     bool        // Enables debugging
	Tracer    EVMLogger   // Opcode logger
	Logger    *log.Logger // Receives one debug record per finished invocation
	ExtraEips []int       // Additional EIPS that are to be enabled
}

// EVM is the Quai Virtual Machine base object and provides
// the necessary tools to run a contract on the given state with
// the provided context. It should be noted that any error
// generated through any of the calls should be considered a
// revert-state-and-consume-all-gas operation, no checks on
// specific errors should ever be performed. The interpreter makes
// sure that any errors generated are to be considered faulty code.
//
// The EVM holds no per-invocation state and may run nested and
// sequential invocations; every invocation gets its own interpreter.
type EVM struct {
	// virtual machine configuration options used to initialise the
	// evm.
	Config Config

	table *JumpTable
}

// NewEVM returns a new EVM running the London instruction set plus the
// EIPs named in config.ExtraEips. Unknown EIPs are logged and skipped.
func NewEVM(config Config) *EVM {
	if config.Logger == nil {
		config.Logger = log.Global
	}
	table := &instructionSet
	if len(config.ExtraEips) > 0 {
		copied := NewInstructionSet()
		table = &copied
	}
	var extraEips []int
	for _, eip := range config.ExtraEips {
		if err := EnableEIP(eip, table); err != nil {
			config.Logger.WithFields(log.Fields{
				"eip": eip,
				"err": err,
			}).Error("EIP activation failed")
		} else {
			extraEips = append(extraEips, eip)
		}
	}
	config.ExtraEips = extraEips
	return &EVM{Config: config, table: table}
}

// IsEIPEnabled reports whether eip was activated on top of London.
func (evm *EVM) IsEIPEnabled(eip int) bool {
	return slices.Contains(evm.Config.ExtraEips, eip)
}

// JumpTable returns the instruction set the EVM runs.
func (evm *EVM) JumpTable() *JumpTable {
	return evm.table
}

// Execute analyses code and runs msg against it. Code that fails the
// analysis is not run and consumes all gas.
func (evm *EVM) Execute(host Host, msg *Message, code []byte) *Output {
	if msg.Depth > int(params.CallCreateDepth) {
		return Failed(StatusCallDepthExceeded, msg.Gas)
	}
	bytecode, err := Analyse(code)
	if err != nil {
		evm.Config.Logger.WithFields(log.Fields{
			"recipient": msg.Recipient,
			"depth":     msg.Depth,
			"err":       err,
		}).Debug("Rejected invalid bytecode")
		out := Failed(StatusFromError(err), 0)
		recordExecution(out, msg.Gas, 0)
		return out
	}
	return evm.ExecuteBytecode(host, msg, bytecode)
}

// ExecuteBytecode runs msg against code that was already analysed, as a
// host keeping a code cache does.
func (evm *EVM) ExecuteBytecode(host Host, msg *Message, code *Bytecode) *Output {
	if msg.Depth > int(params.CallCreateDepth) {
		return Failed(StatusCallDepthExceeded, msg.Gas)
	}
	var (
		interpreter = newInterpreter(evm, host, msg)
		contract    = NewContract(msg, code)
		tracer      = evm.Config.Tracer
		trace       = evm.Config.Debug && tracer != nil && msg.Depth == 0
		start       = time.Now()
	)
	if trace {
		tracer.CaptureStart(msg.Sender, msg.Recipient, msg.Kind, msg.Input, msg.Gas, msg.Value)
	}

	ret, err := interpreter.Run(contract)

	out := &Output{Status: StatusFromError(err)}
	switch out.Status {
	case StatusSuccess:
		out.GasLeft = contract.Gas
		out.Output = ret
	case StatusRevert:
		out.GasLeft = contract.Gas
		out.Output = ret
		out.Reverted = true
	default:
		// Every other failure consumes all gas and returns nothing.
	}
	gasUsed := msg.Gas - out.GasLeft

	if trace {
		tracer.CaptureEnd(out.Output, gasUsed, time.Since(start), err)
	}
	recordExecution(out, gasUsed, interpreter.steps)
	evm.Config.Logger.WithFields(log.Fields{
		"kind":      msg.Kind,
		"recipient": msg.Recipient,
		"depth":     msg.Depth,
		"status":    out.Status,
		"gasUsed":   gasUsed,
		"steps":     interpreter.steps,
	}).Debug("Finished execution")
	return out
}
