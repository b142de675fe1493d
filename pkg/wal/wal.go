package wal

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

const fileModeReadOnly fs.FileMode = 0644

// WAL is an append-only log of JSON records. Every Write is fsynced before
// it returns, so a record that was acknowledged survives a crash.
type WAL struct {
	file *os.File
	mu   sync.Mutex
}

// NewWAL opens or creates the log file in append mode.
func NewWAL(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, fileModeReadOnly)
	if err != nil {
		return nil, err
	}
	return &WAL{file: file}, nil
}

// Write appends one record and flushes it to disk.
func (w *WAL) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := json.NewEncoder(w.file).Encode(v); err != nil {
		return err
	}
	return w.file.Sync()
}

// Sync forces buffered data to disk.
func (w *WAL) Sync() error {
	return w.file.Sync()
}

// Close closes the log file.
func (w *WAL) Close() error {
	return w.file.Close()
}

// ReadAll streams every record from the start of the log through callback,
// one raw JSON document at a time, so recovery never holds the full log in
// memory.
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(w.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
	return nil
}
