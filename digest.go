// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const (
	DigestLen = 32

	digestSelfLen   = common.AddressLength
	digestChainLen  = 32
	digestTargetLen = common.AddressLength
	digestValueLen  = 32
	digestNonceLen  = 32

	digestFixedLen = digestSelfLen + digestChainLen + digestTargetLen + digestValueLen + digestNonceLen

	// signedMessagePrefix binds the inner hash to the personal message
	// signing convention, so a signature over it cannot be reinterpreted
	// as a signature over another protocol's payload.
	signedMessagePrefix = "\x19Ethereum Signed Message:\n32"
)

// ComputeDigest derives the digest the signers are expected to have signed
// for one proposed action. It binds the action parameters to the executor's
// own identity, the network, and the anti-replay counter value at the time
// of the check. Pure function; the caller supplies the counter value.
func ComputeDigest(self common.Address, chainID uint64, target common.Address, value *uint256.Int, payload []byte, nonce uint64) [DigestLen]byte {
	if value == nil {
		value = uint256.NewInt(0)
	}

	buff := make([]byte, digestFixedLen+len(payload))
	var pos int

	copy(buff[pos:], self[:])
	pos += digestSelfLen

	// chain id and nonce occupy full 32 byte big-endian words
	binary.BigEndian.PutUint64(buff[pos+digestChainLen-8:], chainID)
	pos += digestChainLen

	copy(buff[pos:], target[:])
	pos += digestTargetLen

	value32 := value.Bytes32()
	copy(buff[pos:], value32[:])
	pos += digestValueLen

	copy(buff[pos:], payload)
	pos += len(payload)

	binary.BigEndian.PutUint64(buff[pos+digestNonceLen-8:], nonce)

	inner := crypto.Keccak256(buff)

	var digest [DigestLen]byte
	copy(digest[:], crypto.Keccak256([]byte(signedMessagePrefix), inner))
	return digest
}
