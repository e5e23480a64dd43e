// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luxfi/multisig/record"

	"github.com/stretchr/testify/require"
)

func newTestWAL(t *testing.T) *WriteAheadLog {
	fileName := filepath.Join(t.TempDir(), "multisig.wal")
	wal, err := New(fileName)
	require.NoError(t, err)
	return wal
}

func TestWalSingleRw(t *testing.T) {
	require := require.New(t)

	r := record.Record{Version: 1, Type: record.ExecutionRecordType, Payload: []byte{3, 4, 5}}

	wal := newTestWAL(t)
	defer func() {
		require.NoError(wal.Close())
	}()

	require.NoError(wal.Append(&r))

	readRecords, err := wal.ReadAll()
	require.NoError(err)
	require.Equal([]record.Record{r}, readRecords)
}

func TestWalMultipleRws(t *testing.T) {
	require := require.New(t)

	r1 := record.Record{Version: 1, Type: record.ExecutionRecordType, Payload: []byte{3, 4, 5}}
	r2 := record.Record{Version: 1, Type: record.SignerSetUpdatedRecordType, Payload: []byte{1, 2, 3}}

	wal := newTestWAL(t)
	defer func() {
		require.NoError(wal.Close())
	}()

	require.NoError(wal.Append(&r1))
	require.NoError(wal.Append(&r2))

	readRecords, err := wal.ReadAll()
	require.NoError(err)
	require.Equal([]record.Record{r1, r2}, readRecords)
}

func TestWalAppendAfterRead(t *testing.T) {
	require := require.New(t)

	r1 := record.Record{Version: 1, Type: record.ExecutionRecordType, Payload: []byte{3, 4, 5}}
	r2 := record.Record{Version: 1, Type: record.ExecutionRecordType, Payload: []byte{1, 2, 3}}

	wal := newTestWAL(t)
	defer func() {
		require.NoError(wal.Close())
	}()

	require.NoError(wal.Append(&r1))

	readRecords, err := wal.ReadAll()
	require.NoError(err)
	require.Equal([]record.Record{r1}, readRecords)

	require.NoError(wal.Append(&r2))

	readRecords, err = wal.ReadAll()
	require.NoError(err)
	require.Equal([]record.Record{r1, r2}, readRecords)
}

// Write 4 records, corrupt the 4th, and expect only the first 3 back.
func TestCorruptedFile(t *testing.T) {
	require := require.New(t)

	fileName := filepath.Join(t.TempDir(), "multisig.wal")
	wal, err := New(fileName)
	require.NoError(err)
	defer func() {
		require.NoError(wal.Close())
	}()

	const n = 4
	records := make([]record.Record, n)
	for i := range records {
		records[i] = record.Record{
			Version: 1,
			Type:    record.ExecutionRecordType,
			Payload: []byte{byte(i), byte(i), byte(i)},
		}
		require.NoError(wal.Append(&records[i]))
	}

	recordSize := len(records[0].Bytes())

	file, err := os.OpenFile(fileName, os.O_RDWR, 0666)
	require.NoError(err)

	_, err = file.WriteAt([]byte{0, 1, 2}, int64(3*recordSize))
	require.NoError(err)

	// Close the file to ensure the changes are flushed
	require.NoError(file.Close())

	// Because the last record is corrupted, it should not be read
	readRecords, err := wal.ReadAll()
	require.NoError(err)
	require.Equal(records[:n-1], readRecords)
}

func TestTruncate(t *testing.T) {
	require := require.New(t)

	r := record.Record{Version: 1, Type: record.ExecutionRecordType, Payload: []byte{3, 4, 5}}

	wal := newTestWAL(t)
	defer func() {
		require.NoError(wal.Close())
	}()

	require.NoError(wal.Append(&r))
	require.NoError(wal.Truncate())

	readRecords, err := wal.ReadAll()
	require.NoError(err)
	require.Empty(readRecords)
}

func TestReadWriteAfterTruncate(t *testing.T) {
	require := require.New(t)

	r := record.Record{Version: 1, Type: record.ExecutionRecordType, Payload: []byte{3, 4, 5}}

	wal := newTestWAL(t)
	defer func() {
		require.NoError(wal.Close())
	}()

	require.NoError(wal.Append(&r))
	require.NoError(wal.Truncate())

	readRecords, err := wal.ReadAll()
	require.NoError(err)
	require.Empty(readRecords)

	require.NoError(wal.Append(&r))

	readRecords, err = wal.ReadAll()
	require.NoError(err)
	require.Equal([]record.Record{r}, readRecords)
}
