// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wal

import (
	"fmt"
	"io"
	"os"

	"github.com/luxfi/multisig/record"
)

const (
	walFlags       = os.O_APPEND | os.O_CREATE | os.O_RDWR
	walPermissions = 0666
)

// WriteAheadLog is a file backed, append only audit log. Every record is
// flushed to persistent storage before Append returns.
type WriteAheadLog struct {
	file *os.File
}

// New opens an audit log file, creating one if necessary.
// Call Close() on the WriteAheadLog to ensure the file is closed after use.
func New(fileName string) (*WriteAheadLog, error) {
	file, err := os.OpenFile(fileName, walFlags, walPermissions)
	if err != nil {
		return nil, err
	}

	return &WriteAheadLog{
		file: file,
	}, nil
}

func (w *WriteAheadLog) Append(r *record.Record) error {
	if _, err := w.file.Write(r.Bytes()); err != nil {
		return err
	}

	// ensure the record reaches persistent storage
	return w.file.Sync()
}

// ReadAll returns every intact record in the log. A torn or corrupted tail
// record is discarded and the file is truncated back to the last intact one.
func (w *WriteAheadLog) ReadAll() ([]record.Record, error) {
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to start %w", err)
	}

	fileInfo, err := w.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("error getting file info %w", err)
	}
	bytesToRead := fileInfo.Size()

	records := []record.Record{}
	for bytesToRead > 0 {
		var r record.Record
		bytesRead, err := r.FromBytes(w.file)
		// record was corrupted in the log
		if err != nil {
			return records, w.truncateAt(fileInfo.Size() - bytesToRead)
		}

		bytesToRead -= int64(bytesRead)
		records = append(records, r)
	}

	return records, nil
}

// Truncate discards the entire log.
func (w *WriteAheadLog) Truncate() error {
	return w.truncateAt(0)
}

func (w *WriteAheadLog) truncateAt(offset int64) error {
	if err := w.file.Truncate(offset); err != nil {
		return err
	}

	return w.file.Sync()
}

func (w *WriteAheadLog) Close() error {
	return w.file.Close()
}
