// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"context"

	"github.com/luxfi/multisig/record"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

type Logger interface {
	// Log that a fatal error has occurred. The program should likely exit soon
	// after this is called
	Fatal(msg string, fields ...zap.Field)
	// Log that an error has occurred. The program should be able to recover
	// from this error
	Error(msg string, fields ...zap.Field)
	// Log that an event has occurred that may indicate a future error or
	// vulnerability
	Warn(msg string, fields ...zap.Field)
	// Log an event that may be useful for a user to see to measure the progress
	// of an execution
	Info(msg string, fields ...zap.Field)
	// Log an event that may be useful for understanding the order of the
	// execution of an invocation
	Trace(msg string, fields ...zap.Field)
	// Log an event that may be useful for a programmer to see when debuging the
	// execution of an invocation
	Debug(msg string, fields ...zap.Field)
	// Log extremely detailed events that can be useful for inspecting every
	// aspect of the program
	Verbo(msg string, fields ...zap.Field)
}

// Callable is the host environment's external call primitive. The executor
// invokes it exactly once per successful verification and never retries it.
type Callable interface {
	// Call invokes the target with the given value and payload, and returns
	// whatever data the target produced. A non-nil error means the call
	// reverted and had no effect.
	Call(ctx context.Context, target common.Address, value *uint256.Int, payload []byte) ([]byte, error)
}

// WriteAheadLog is the append only sink for audit records. The executor
// writes execution and signer set update records to it and never reads
// them back.
type WriteAheadLog interface {
	Append(*record.Record) error
	ReadAll() ([]record.Record, error)
}

// Authority attests that a mutating registry call originates from the
// executor's verified dispatch path. Only this package can mint one, so a
// direct caller has no way to satisfy the check.
type Authority interface {
	dispatchAuthority()
}
