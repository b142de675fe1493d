package wal

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func TestWriteAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")

	w, err := NewWAL(path)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, w.Write(record{Seq: i, Note: "r"}))
	}

	var got []record
	err = w.ReadAll(func(raw []byte) error {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Seq)
	assert.Equal(t, 3, got[2].Seq)

	require.NoError(t, w.Close())
}

func TestReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")

	w, err := NewWAL(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(record{Seq: 1}))
	require.NoError(t, w.Close())

	w, err = NewWAL(path)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Write(record{Seq: 2}))

	count := 0
	require.NoError(t, w.ReadAll(func(raw []byte) error {
		count++
		return nil
	}))
	assert.Equal(t, 2, count)
}

func TestReadAllEmptyLog(t *testing.T) {
	w, err := NewWAL(filepath.Join(t.TempDir(), "wal.log"))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.ReadAll(func([]byte) error {
		t.Fatal("callback must not run on an empty log")
		return nil
	}))
}
