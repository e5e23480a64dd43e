// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

var (
	ErrCallExecutionFailed = errors.New("call execution failed")
	ErrMissingCollaborator = errors.New("missing collaborator in executor config")
)

// ExecutionRecord is the audit event emitted for every committed execution.
// It is appended to the audit log and never read back by the engine.
type ExecutionRecord struct {
	Executor common.Address
	Target   common.Address
	Value    *uint256.Int
	Payload  []byte
	// Consumed is the anti-replay counter value this execution consumed.
	Consumed uint64
}

type ExecutorConfig struct {
	Logger   Logger
	Registry *Registry
	WAL      WriteAheadLog
	Call     Callable
	// Self is this executor's own identity. An execution targeting Self
	// carrying a signer update payload reconfigures the registry.
	Self common.Address
	// ChainID discriminates the network the executor is deployed on.
	ChainID uint64
}

// Executor is the serialized execution engine. It owns the anti-replay
// counter exclusively; at most one Execute call is in flight at a time.
type Executor struct {
	ExecutorConfig
	verifier *Verifier

	lock  sync.Mutex
	nonce uint64
}

func NewExecutor(conf ExecutorConfig) (*Executor, error) {
	if conf.Logger == nil {
		return nil, fmt.Errorf("%w: logger", ErrMissingCollaborator)
	}
	if conf.Registry == nil {
		return nil, fmt.Errorf("%w: registry", ErrMissingCollaborator)
	}
	if conf.WAL == nil {
		return nil, fmt.Errorf("%w: write ahead log", ErrMissingCollaborator)
	}
	if conf.Call == nil {
		return nil, fmt.Errorf("%w: call primitive", ErrMissingCollaborator)
	}
	if conf.Self == (common.Address{}) {
		return nil, fmt.Errorf("%w: self identity", ErrMissingCollaborator)
	}

	return &Executor{
		ExecutorConfig: conf,
		verifier:       NewVerifier(conf.Logger, conf.Registry),
	}, nil
}

// Nonce returns the current anti-replay counter value. The counter advances
// by exactly one per committed execution.
func (e *Executor) Nonce() uint64 {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.nonce
}

func (e *Executor) Signers() []common.Address {
	return e.Registry.Signers()
}

func (e *Executor) Threshold() uint64 {
	return e.Registry.Threshold()
}

func (e *Executor) IsSigner(signer common.Address) bool {
	return e.Registry.IsSigner(signer)
}

// Execute verifies that threshold many distinct registered signers approved
// the action described by (target, value, payload) at the current counter
// value, consumes the counter, and dispatches the action. The whole call is
// a single unit of work: either the counter advance and the external effect
// both commit, or neither does.
func (e *Executor) Execute(ctx context.Context, from common.Address, target common.Address, value *uint256.Int, payload []byte, rawSigs [][]byte) (ExecutionRecord, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	nonce := e.nonce
	digest := ComputeDigest(e.Self, e.ChainID, target, value, payload, nonce)

	e.Logger.Debug("Verifying execution approval",
		zap.Stringer("target", target),
		zap.Uint64("nonce", nonce),
		zap.Int("signatures", len(rawSigs)))

	if err := e.verifier.Verify(digest, rawSigs); err != nil {
		e.Logger.Debug("Rejected execution", zap.Uint64("nonce", nonce), zap.Error(err))
		return ExecutionRecord{}, err
	}

	// The counter is consumed the moment the signatures check out, so a
	// failing call cannot be replayed later under an already disclosed
	// digest. A dispatch failure rolls the whole unit of work back below.
	e.nonce = nonce + 1

	if err := e.dispatch(ctx, target, value, payload); err != nil {
		e.nonce = nonce
		e.Logger.Warn("Reverted execution",
			zap.Stringer("target", target), zap.Uint64("nonce", nonce), zap.Error(err))
		return ExecutionRecord{}, fmt.Errorf("%w: %w", ErrCallExecutionFailed, err)
	}

	rec := ExecutionRecord{
		Executor: from,
		Target:   target,
		Value:    valueOrZero(value),
		Payload:  payload,
		Consumed: nonce,
	}

	if target == e.Self {
		if err := e.WAL.Append(NewSignerSetUpdatedRecord(e.Registry.Signers(), e.Registry.Threshold())); err != nil {
			return ExecutionRecord{}, fmt.Errorf("failed to append signer set update record: %w", err)
		}
	}

	if err := e.WAL.Append(NewExecutionRecord(rec)); err != nil {
		return ExecutionRecord{}, fmt.Errorf("failed to append execution record: %w", err)
	}

	e.Logger.Info("Committed execution",
		zap.Stringer("executor", from),
		zap.Stringer("target", target),
		zap.Uint64("consumed", nonce))

	return rec, nil
}

// dispatch performs the approved action. A reconfiguration of this very
// executor is not a special case here; the registry's own authority check
// is what restricts it to this path.
func (e *Executor) dispatch(ctx context.Context, target common.Address, value *uint256.Int, payload []byte) error {
	if target == e.Self {
		return e.reconfigure(payload)
	}

	_, err := e.Call.Call(ctx, target, value, payload)
	return err
}

func (e *Executor) reconfigure(payload []byte) error {
	signers, threshold, err := ParseSignerUpdatePayload(payload)
	if err != nil {
		return err
	}

	return e.Registry.Replace(dispatchAuthority{}, signers, threshold)
}

func valueOrZero(value *uint256.Int) *uint256.Int {
	if value == nil {
		return uint256.NewInt(0)
	}
	return value.Clone()
}
