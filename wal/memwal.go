// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wal

import (
	"bytes"
	"fmt"

	"github.com/luxfi/multisig/record"
)

// InMemWAL is an in-memory audit log with the same framing as the file
// backed one. It is intended for tests and dry runs.
type InMemWAL bytes.Buffer

func (wal *InMemWAL) Append(r *record.Record) error {
	w := (*bytes.Buffer)(wal)
	_, err := w.Write(r.Bytes())
	return err
}

func (wal *InMemWAL) ReadAll() ([]record.Record, error) {
	r := bytes.NewBuffer((*bytes.Buffer)(wal).Bytes())

	res := []record.Record{}
	for r.Len() > 0 {
		var rec record.Record
		if _, err := rec.FromBytes(r); err != nil {
			return nil, fmt.Errorf("failed reading in-memory record: %w", err)
		}
		res = append(res, rec)
	}

	return res, nil
}
