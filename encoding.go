// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"encoding/asn1"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/luxfi/multisig/record"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	auditRecordVersion uint8 = 1

	// SignerUpdatePayloadTag marks an execute payload that reconfigures the
	// signer set of the executor it targets.
	SignerUpdatePayloadTag uint16 = 0x7570

	wordLen  = 32
	nonceLen = 8
)

var ErrMalformedPayload = errors.New("malformed payload")

type executionRecordBody struct {
	Executor []byte
	Target   []byte
	Value    []byte
	Payload  []byte
	Consumed []byte
}

type signerUpdateBody struct {
	Signers   [][]byte
	Threshold []byte
}

// NewExecutionRecord frames an execution record for the audit log.
func NewExecutionRecord(rec ExecutionRecord) *record.Record {
	value := valueOrZero(rec.Value).Bytes32()
	consumed := make([]byte, nonceLen)
	binary.BigEndian.PutUint64(consumed, rec.Consumed)

	body := executionRecordBody{
		Executor: rec.Executor[:],
		Target:   rec.Target[:],
		Value:    value[:],
		Payload:  rec.Payload,
		Consumed: consumed,
	}

	payload, err := asn1.Marshal(body)
	if err != nil {
		panic(err)
	}

	return &record.Record{
		Version: auditRecordVersion,
		Type:    record.ExecutionRecordType,
		Payload: payload,
	}
}

func ParseExecutionRecord(r *record.Record) (ExecutionRecord, error) {
	if r.Type != record.ExecutionRecordType {
		return ExecutionRecord{}, fmt.Errorf("expected record type %d, got %d", record.ExecutionRecordType, r.Type)
	}

	var body executionRecordBody
	if _, err := asn1.Unmarshal(r.Payload, &body); err != nil {
		return ExecutionRecord{}, err
	}

	if len(body.Executor) != common.AddressLength || len(body.Target) != common.AddressLength {
		return ExecutionRecord{}, fmt.Errorf("%w: identity of wrong length", ErrMalformedPayload)
	}
	if len(body.Value) != wordLen {
		return ExecutionRecord{}, fmt.Errorf("%w: value is %d bytes, expected %d", ErrMalformedPayload, len(body.Value), wordLen)
	}
	if len(body.Consumed) != nonceLen {
		return ExecutionRecord{}, fmt.Errorf("%w: counter is %d bytes, expected %d", ErrMalformedPayload, len(body.Consumed), nonceLen)
	}

	var rec ExecutionRecord
	copy(rec.Executor[:], body.Executor)
	copy(rec.Target[:], body.Target)
	rec.Value = new(uint256.Int).SetBytes(body.Value)
	rec.Payload = body.Payload
	rec.Consumed = binary.BigEndian.Uint64(body.Consumed)

	return rec, nil
}

// NewSignerUpdatePayload encodes a reconfiguration action to be carried as
// the payload of an execution targeting the executor itself.
func NewSignerUpdatePayload(signers []common.Address, threshold uint64) []byte {
	body := signerUpdateBody{
		Signers:   make([][]byte, 0, len(signers)),
		Threshold: make([]byte, nonceLen),
	}
	for _, signer := range signers {
		body.Signers = append(body.Signers, signer.Bytes())
	}
	binary.BigEndian.PutUint64(body.Threshold, threshold)

	payload, err := asn1.Marshal(body)
	if err != nil {
		panic(err)
	}

	buff := make([]byte, len(payload)+2)
	binary.BigEndian.PutUint16(buff, SignerUpdatePayloadTag)
	copy(buff[2:], payload)

	return buff
}

func ParseSignerUpdatePayload(payload []byte) ([]common.Address, uint64, error) {
	if len(payload) < 2 {
		return nil, 0, fmt.Errorf("%w: expected at least two bytes", ErrMalformedPayload)
	}

	tag := binary.BigEndian.Uint16(payload[:2])
	if tag != SignerUpdatePayloadTag {
		return nil, 0, fmt.Errorf("%w: expected payload tag %d, got %d", ErrMalformedPayload, SignerUpdatePayloadTag, tag)
	}

	var body signerUpdateBody
	if _, err := asn1.Unmarshal(payload[2:], &body); err != nil {
		return nil, 0, err
	}

	return signerUpdateFromBody(body)
}

// NewSignerSetUpdatedRecord frames a signer set update notification for the
// audit log.
func NewSignerSetUpdatedRecord(signers []common.Address, threshold uint64) *record.Record {
	payload := NewSignerUpdatePayload(signers, threshold)

	return &record.Record{
		Version: auditRecordVersion,
		Type:    record.SignerSetUpdatedRecordType,
		Payload: payload[2:],
	}
}

func ParseSignerSetUpdatedRecord(r *record.Record) ([]common.Address, uint64, error) {
	if r.Type != record.SignerSetUpdatedRecordType {
		return nil, 0, fmt.Errorf("expected record type %d, got %d", record.SignerSetUpdatedRecordType, r.Type)
	}

	var body signerUpdateBody
	if _, err := asn1.Unmarshal(r.Payload, &body); err != nil {
		return nil, 0, err
	}

	return signerUpdateFromBody(body)
}

func signerUpdateFromBody(body signerUpdateBody) ([]common.Address, uint64, error) {
	if len(body.Threshold) != nonceLen {
		return nil, 0, fmt.Errorf("%w: threshold is %d bytes, expected %d", ErrMalformedPayload, len(body.Threshold), nonceLen)
	}

	signers := make([]common.Address, 0, len(body.Signers))
	for _, raw := range body.Signers {
		if len(raw) != common.AddressLength {
			return nil, 0, fmt.Errorf("%w: signer identity is %d bytes, expected %d", ErrMalformedPayload, len(raw), common.AddressLength)
		}
		signers = append(signers, common.BytesToAddress(raw))
	}

	return signers, binary.BigEndian.Uint64(body.Threshold), nil
}
