// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var ErrInsufficientSignatures = errors.New("insufficient valid signatures")

// Verifier checks batches of recoverable signatures against the registry's
// current signer set. It holds no mutable state of its own.
type Verifier struct {
	logger   Logger
	registry *Registry
}

func NewVerifier(logger Logger, registry *Registry) *Verifier {
	return &Verifier{
		logger:   logger,
		registry: registry,
	}
}

// Verify scans the supplied signatures in order and succeeds once threshold
// many distinct registered signers have been counted. Signatures past that
// point are not examined. Signatures recovering to an unregistered identity
// are skipped, not fatal, so a superset of collected signatures can be
// submitted without pre-filtering. Structural defects abort the scan.
//
// Verify is read-only and safe to call for diagnostics or a dry run.
func (v *Verifier) Verify(digest [DigestLen]byte, rawSigs [][]byte) error {
	threshold := v.registry.Threshold()

	var count uint64
	counted := make(map[common.Address]struct{}, len(rawSigs))

	for i, raw := range rawSigs {
		sig, err := ParseSignature(raw)
		if err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}

		signer, err := sig.RecoverSigner(digest)
		if err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}

		if !v.registry.IsSigner(signer) {
			v.logger.Debug("Ignoring signature from unregistered identity",
				zap.Int("index", i), zap.Stringer("signer", signer))
			continue
		}

		if _, seen := counted[signer]; seen {
			v.logger.Debug("Ignoring repeated signature from signer",
				zap.Int("index", i), zap.Stringer("signer", signer))
			continue
		}

		counted[signer] = struct{}{}
		count++

		if count >= threshold {
			v.logger.Debug("Collected threshold of signatures",
				zap.Uint64("count", count), zap.Int("supplied", len(rawSigs)))
			return nil
		}
	}

	return fmt.Errorf("%w: got %d, need %d", ErrInsufficientSignatures, count, threshold)
}
