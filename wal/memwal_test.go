// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wal

import (
	"testing"

	"github.com/luxfi/multisig/record"

	"github.com/stretchr/testify/require"
)

func TestInMemWAL(t *testing.T) {
	r1 := record.Record{
		Version: 1,
		Type:    record.ExecutionRecordType,
		Payload: []byte{4, 5, 6},
	}

	r2 := record.Record{
		Version: 1,
		Type:    record.SignerSetUpdatedRecordType,
		Payload: []byte{10, 11, 12},
	}

	var wal InMemWAL
	require.NoError(t, wal.Append(&r1))
	require.NoError(t, wal.Append(&r2))

	records, err := wal.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []record.Record{r1, r2}, records)
}
