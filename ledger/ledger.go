// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger is a token ledger collaborator for the threshold executor.
// It keeps balance, allowance, and supply bookkeeping, and restricts its
// governance operations to a single governor identity, intended to be the
// executor itself so that minting, burning, and pausing require a quorum.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/multisig"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

var (
	ErrZeroAddress           = errors.New("zero address")
	ErrPaused                = errors.New("ledger is paused")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNotGovernor           = errors.New("caller is not the governor")
	ErrSupplyOverflow        = errors.New("total supply overflow")
)

type Config struct {
	Logger multisig.Logger
	// Governor may mint, burn, and pause. Pointing it at the executor's
	// Self identity puts those operations under threshold governance.
	Governor common.Address
	Name     string
	Symbol   string
}

type Ledger struct {
	Config

	lock       sync.RWMutex
	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int
	supply     *uint256.Int
	paused     bool
}

func New(conf Config) (*Ledger, error) {
	if conf.Logger == nil {
		return nil, errors.New("missing logger")
	}
	if conf.Governor == (common.Address{}) {
		return nil, fmt.Errorf("governor: %w", ErrZeroAddress)
	}

	return &Ledger{
		Config:     conf,
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
		supply:     uint256.NewInt(0),
	}, nil
}

func (l *Ledger) BalanceOf(addr common.Address) *uint256.Int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if balance, ok := l.balances[addr]; ok {
		return balance.Clone()
	}
	return uint256.NewInt(0)
}

func (l *Ledger) Allowance(owner, spender common.Address) *uint256.Int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if allowance, ok := l.allowances[owner][spender]; ok {
		return allowance.Clone()
	}
	return uint256.NewInt(0)
}

func (l *Ledger) TotalSupply() *uint256.Int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.supply.Clone()
}

func (l *Ledger) Paused() bool {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.paused
}

func (l *Ledger) Transfer(from, to common.Address, amount *uint256.Int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.transfer(from, to, amount)
}

func (l *Ledger) TransferFrom(spender, from, to common.Address, amount *uint256.Int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	allowance, ok := l.allowances[from][spender]
	if !ok || allowance.Lt(amount) {
		return fmt.Errorf("%w: spender %s of owner %s", ErrInsufficientAllowance, spender, from)
	}

	if err := l.transfer(from, to, amount); err != nil {
		return err
	}

	allowance.Sub(allowance, amount)
	return nil
}

func (l *Ledger) Approve(owner, spender common.Address, amount *uint256.Int) error {
	if owner == (common.Address{}) || spender == (common.Address{}) {
		return ErrZeroAddress
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if l.paused {
		return ErrPaused
	}

	if _, ok := l.allowances[owner]; !ok {
		l.allowances[owner] = make(map[common.Address]*uint256.Int)
	}
	l.allowances[owner][spender] = amount.Clone()
	return nil
}

func (l *Ledger) Mint(caller, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.governorOnly(caller); err != nil {
		return err
	}

	supply := new(uint256.Int)
	if _, overflow := supply.AddOverflow(l.supply, amount); overflow {
		return ErrSupplyOverflow
	}

	l.supply = supply
	l.credit(to, amount)

	l.Logger.Info("Minted tokens", zap.Stringer("to", to), zap.Stringer("amount", amount))
	return nil
}

func (l *Ledger) Burn(caller, from common.Address, amount *uint256.Int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.governorOnly(caller); err != nil {
		return err
	}

	balance, ok := l.balances[from]
	if !ok || balance.Lt(amount) {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, from)
	}

	balance.Sub(balance, amount)
	l.supply.Sub(l.supply, amount)

	l.Logger.Info("Burned tokens", zap.Stringer("from", from), zap.Stringer("amount", amount))
	return nil
}

func (l *Ledger) SetPaused(caller common.Address, paused bool) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.governorOnly(caller); err != nil {
		return err
	}

	l.paused = paused
	l.Logger.Info("Changed pause flag", zap.Bool("paused", paused))
	return nil
}

func (l *Ledger) governorOnly(caller common.Address) error {
	if caller != l.Governor {
		return fmt.Errorf("%w: %s", ErrNotGovernor, caller)
	}
	return nil
}

func (l *Ledger) transfer(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if l.paused {
		return ErrPaused
	}

	balance, ok := l.balances[from]
	if !ok || balance.Lt(amount) {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, from)
	}

	balance.Sub(balance, amount)
	l.credit(to, amount)
	return nil
}

func (l *Ledger) credit(to common.Address, amount *uint256.Int) {
	if balance, ok := l.balances[to]; ok {
		balance.Add(balance, amount)
		return
	}
	l.balances[to] = amount.Clone()
}
