// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"encoding/asn1"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	opUndefined uint16 = iota
	opTransfer
	opTransferFrom
	opApprove
	opMint
	opBurn
	opSetPaused
)

var (
	ErrUnknownTarget = errors.New("call targets a different identity")
	ErrUnknownOp     = errors.New("unknown ledger operation")
)

type addrAmountBody struct {
	Addr   []byte
	Amount []byte
}

type twoAddrAmountBody struct {
	From   []byte
	To     []byte
	Amount []byte
}

type pausedBody struct {
	Paused bool
}

// Callable adapts the ledger to the executor's external call primitive.
// Operations arriving through it act on behalf of the configured caller
// identity, the way a contract call acts on behalf of its sender.
type Callable struct {
	ledger *Ledger
	target common.Address
	caller common.Address
}

// NewCallable routes calls addressed to [target] into [ledger], attributing
// them to [caller]. Wiring caller to the executor's Self identity makes the
// governance operations reachable only through a quorum approved execution.
func NewCallable(l *Ledger, target, caller common.Address) *Callable {
	return &Callable{
		ledger: l,
		target: target,
		caller: caller,
	}
}

func (c *Callable) Call(_ context.Context, target common.Address, _ *uint256.Int, payload []byte) ([]byte, error) {
	if target != c.target {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}

	if len(payload) < 2 {
		return nil, errors.New("payload is too short")
	}
	op := binary.BigEndian.Uint16(payload[:2])
	body := payload[2:]

	switch op {
	case opTransfer:
		to, amount, err := parseAddrAmount(body)
		if err != nil {
			return nil, err
		}
		return nil, c.ledger.Transfer(c.caller, to, amount)
	case opTransferFrom:
		from, to, amount, err := parseTwoAddrAmount(body)
		if err != nil {
			return nil, err
		}
		return nil, c.ledger.TransferFrom(c.caller, from, to, amount)
	case opApprove:
		spender, amount, err := parseAddrAmount(body)
		if err != nil {
			return nil, err
		}
		return nil, c.ledger.Approve(c.caller, spender, amount)
	case opMint:
		to, amount, err := parseAddrAmount(body)
		if err != nil {
			return nil, err
		}
		return nil, c.ledger.Mint(c.caller, to, amount)
	case opBurn:
		from, amount, err := parseAddrAmount(body)
		if err != nil {
			return nil, err
		}
		return nil, c.ledger.Burn(c.caller, from, amount)
	case opSetPaused:
		var pb pausedBody
		if _, err := asn1.Unmarshal(body, &pb); err != nil {
			return nil, err
		}
		return nil, c.ledger.SetPaused(c.caller, pb.Paused)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownOp, op)
	}
}

func NewTransferPayload(to common.Address, amount *uint256.Int) []byte {
	return newAddrAmountPayload(opTransfer, to, amount)
}

func NewTransferFromPayload(from, to common.Address, amount *uint256.Int) []byte {
	amount32 := amount.Bytes32()
	body, err := asn1.Marshal(twoAddrAmountBody{
		From:   from.Bytes(),
		To:     to.Bytes(),
		Amount: amount32[:],
	})
	if err != nil {
		panic(err)
	}
	return tagged(opTransferFrom, body)
}

func NewApprovePayload(spender common.Address, amount *uint256.Int) []byte {
	return newAddrAmountPayload(opApprove, spender, amount)
}

func NewMintPayload(to common.Address, amount *uint256.Int) []byte {
	return newAddrAmountPayload(opMint, to, amount)
}

func NewBurnPayload(from common.Address, amount *uint256.Int) []byte {
	return newAddrAmountPayload(opBurn, from, amount)
}

func NewSetPausedPayload(paused bool) []byte {
	body, err := asn1.Marshal(pausedBody{Paused: paused})
	if err != nil {
		panic(err)
	}
	return tagged(opSetPaused, body)
}

func newAddrAmountPayload(op uint16, addr common.Address, amount *uint256.Int) []byte {
	amount32 := amount.Bytes32()
	body, err := asn1.Marshal(addrAmountBody{
		Addr:   addr.Bytes(),
		Amount: amount32[:],
	})
	if err != nil {
		panic(err)
	}
	return tagged(op, body)
}

func tagged(op uint16, body []byte) []byte {
	buff := make([]byte, len(body)+2)
	binary.BigEndian.PutUint16(buff, op)
	copy(buff[2:], body)
	return buff
}

func parseAddrAmount(body []byte) (common.Address, *uint256.Int, error) {
	var ab addrAmountBody
	if _, err := asn1.Unmarshal(body, &ab); err != nil {
		return common.Address{}, nil, err
	}
	if len(ab.Addr) != common.AddressLength {
		return common.Address{}, nil, fmt.Errorf("identity is %d bytes, expected %d", len(ab.Addr), common.AddressLength)
	}
	return common.BytesToAddress(ab.Addr), new(uint256.Int).SetBytes(ab.Amount), nil
}

func parseTwoAddrAmount(body []byte) (common.Address, common.Address, *uint256.Int, error) {
	var tb twoAddrAmountBody
	if _, err := asn1.Unmarshal(body, &tb); err != nil {
		return common.Address{}, common.Address{}, nil, err
	}
	if len(tb.From) != common.AddressLength || len(tb.To) != common.AddressLength {
		return common.Address{}, common.Address{}, nil, errors.New("identity of wrong length")
	}
	return common.BytesToAddress(tb.From), common.BytesToAddress(tb.To), new(uint256.Int).SetBytes(tb.Amount), nil
}
