// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig_test

import (
	"testing"

	"github.com/luxfi/multisig"
	"github.com/luxfi/multisig/testutil"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	l := testutil.MakeLogger(t)
	signers := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		common.HexToAddress("0x03"),
	}

	tests := []struct {
		name        string
		signers     []common.Address
		threshold   uint64
		expectError error
	}{
		{
			name:      "all signers required",
			signers:   signers,
			threshold: 3,
		},
		{
			name:      "partial threshold",
			signers:   signers,
			threshold: 1,
		},
		{
			name:        "zero threshold",
			signers:     signers,
			threshold:   0,
			expectError: multisig.ErrInvalidThreshold,
		},
		{
			name:        "threshold above signer count",
			signers:     signers,
			threshold:   4,
			expectError: multisig.ErrInvalidThreshold,
		},
		{
			name:        "no signers",
			signers:     nil,
			threshold:   1,
			expectError: multisig.ErrInvalidThreshold,
		},
		{
			name:        "zero address signer",
			signers:     []common.Address{signers[0], {}, signers[2]},
			threshold:   2,
			expectError: multisig.ErrZeroAddress,
		},
		{
			name:        "duplicate signer",
			signers:     []common.Address{signers[0], signers[1], signers[0]},
			threshold:   2,
			expectError: multisig.ErrDuplicateSigner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := multisig.NewRegistry(l, tt.signers, tt.threshold)
			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				require.Nil(t, registry)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.signers, registry.Signers())
			require.Equal(t, tt.threshold, registry.Threshold())
		})
	}
}

func TestRegistryIsSigner(t *testing.T) {
	l := testutil.MakeLogger(t)
	signers := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
	}

	registry, err := multisig.NewRegistry(l, signers, 2)
	require.NoError(t, err)

	require.True(t, registry.IsSigner(signers[0]))
	require.True(t, registry.IsSigner(signers[1]))
	require.False(t, registry.IsSigner(common.HexToAddress("0x03")))
	require.False(t, registry.IsSigner(common.Address{}))
}

func TestRegistrySignersReturnsCopy(t *testing.T) {
	l := testutil.MakeLogger(t)
	signers := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
	}

	registry, err := multisig.NewRegistry(l, signers, 1)
	require.NoError(t, err)

	enumerated := registry.Signers()
	enumerated[0] = common.HexToAddress("0xff")

	require.Equal(t, signers, registry.Signers())
}

// A direct Replace invocation carries no dispatch authority and must always
// fail, regardless of how valid the new configuration is.
func TestRegistryReplaceUnauthorized(t *testing.T) {
	l := testutil.MakeLogger(t)
	signers := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
	}

	registry, err := multisig.NewRegistry(l, signers, 2)
	require.NoError(t, err)

	err = registry.Replace(nil, []common.Address{common.HexToAddress("0x03")}, 1)
	require.ErrorIs(t, err, multisig.ErrUnauthorized)

	require.Equal(t, signers, registry.Signers())
	require.Equal(t, uint64(2), registry.Threshold())
}
