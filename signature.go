// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	sigRLen = 32
	sigSLen = 32
	sigVLen = 1

	// SignatureLen is the fixed encoding size of a recoverable signature.
	SignatureLen = sigRLen + sigSLen + sigVLen

	sigROffset = 0
	sigSOffset = sigROffset + sigRLen
	sigVOffset = sigSOffset + sigSLen

	// canonical recovery id encoding
	sigVLower = 27
	sigVUpper = 28
)

var (
	ErrMalformedSignature = errors.New("malformed signature encoding")
	ErrInvalidRecoveryID  = errors.New("invalid recovery id")
	ErrInvalidSignature   = errors.New("invalid signature")
)

// Signature is the parsed form of a 65 byte [R || S || V] recoverable
// signature. V carries the canonical {27, 28} recovery id encoding.
type Signature struct {
	R [sigRLen]byte
	S [sigSLen]byte
	V uint8
}

// ParseSignature performs a length-checked parse of a raw signature buffer.
// It never reads past bounds; a wrong length fails cleanly.
func ParseSignature(buff []byte) (Signature, error) {
	if len(buff) != SignatureLen {
		return Signature{}, fmt.Errorf("%w: %d bytes, expected %d", ErrMalformedSignature, len(buff), SignatureLen)
	}

	var sig Signature
	copy(sig.R[:], buff[sigROffset:sigSOffset])
	copy(sig.S[:], buff[sigSOffset:sigVOffset])
	sig.V = buff[sigVOffset]

	if sig.V != sigVLower && sig.V != sigVUpper {
		return Signature{}, fmt.Errorf("%w: %d, expected %d or %d", ErrInvalidRecoveryID, sig.V, sigVLower, sigVUpper)
	}

	return sig, nil
}

func (sig Signature) Bytes() []byte {
	buff := make([]byte, SignatureLen)
	copy(buff[sigROffset:], sig.R[:])
	copy(buff[sigSOffset:], sig.S[:])
	buff[sigVOffset] = sig.V

	return buff
}

// RecoverSigner derives the candidate signer identity from the signature
// and the digest it was produced over. A signature that does not describe
// a valid curve point fails with ErrInvalidSignature.
func (sig Signature) RecoverSigner(digest [DigestLen]byte) (common.Address, error) {
	raw := sig.Bytes()
	raw[sigVOffset] = sig.V - sigVLower

	pub, err := crypto.SigToPub(digest[:], raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	signer := crypto.PubkeyToAddress(*pub)
	if signer == (common.Address{}) {
		return common.Address{}, ErrInvalidSignature
	}

	return signer, nil
}
