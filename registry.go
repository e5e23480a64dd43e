// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	ErrInvalidThreshold = errors.New("threshold must be between 1 and the signer count")
	ErrZeroAddress      = errors.New("signer is the zero address")
	ErrDuplicateSigner  = errors.New("duplicate signer")
	ErrUnauthorized     = errors.New("caller is not the verified dispatch path")
)

// Registry owns the authorized signer set and the threshold. The set is
// replaced wholesale, never mutated element-wise, and only through the
// executor's verified dispatch path.
type Registry struct {
	logger Logger

	lock      sync.RWMutex
	signers   []common.Address
	index     map[common.Address]struct{}
	threshold uint64
}

func NewRegistry(logger Logger, signers []common.Address, threshold uint64) (*Registry, error) {
	index, err := validateSignerSet(signers, threshold)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		logger:    logger,
		signers:   append([]common.Address{}, signers...),
		index:     index,
		threshold: threshold,
	}

	logger.Info("Initialized signer registry",
		zap.Int("signers", len(signers)), zap.Uint64("threshold", threshold))

	return r, nil
}

// validateSignerSet enforces the set invariants shared by construction and
// reconfiguration, and builds the membership index as it goes.
func validateSignerSet(signers []common.Address, threshold uint64) (map[common.Address]struct{}, error) {
	if threshold == 0 || threshold > uint64(len(signers)) {
		return nil, ErrInvalidThreshold
	}

	index := make(map[common.Address]struct{}, len(signers))
	for _, signer := range signers {
		if signer == (common.Address{}) {
			return nil, ErrZeroAddress
		}
		if _, seen := index[signer]; seen {
			return nil, ErrDuplicateSigner
		}
		index[signer] = struct{}{}
	}

	return index, nil
}

// IsSigner is a pure membership query with no side effects.
func (r *Registry) IsSigner(signer common.Address) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	_, ok := r.index[signer]
	return ok
}

// Signers returns a copy of the current signer set. The order is the
// enumeration order given at construction or reconfiguration and carries
// no authorization semantics.
func (r *Registry) Signers() []common.Address {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return append([]common.Address{}, r.signers...)
}

func (r *Registry) Threshold() uint64 {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.threshold
}

// Replace atomically swaps the signer set and the threshold together.
// It may only be invoked through the executor's verified dispatch path;
// any other caller fails with ErrUnauthorized regardless of the inputs.
func (r *Registry) Replace(auth Authority, signers []common.Address, threshold uint64) error {
	if _, ok := auth.(dispatchAuthority); !ok {
		return ErrUnauthorized
	}

	index, err := validateSignerSet(signers, threshold)
	if err != nil {
		return err
	}

	r.lock.Lock()
	r.signers = append([]common.Address{}, signers...)
	r.index = index
	r.threshold = threshold
	r.lock.Unlock()

	r.logger.Info("Replaced signer set",
		zap.Int("signers", len(signers)), zap.Uint64("threshold", threshold))

	return nil
}

// dispatchAuthority is the sentinel capability representing the executor's
// own execution path. It is deliberately unexported and forgeable only
// from within this package.
type dispatchAuthority struct{}

func (dispatchAuthority) dispatchAuthority() {}
