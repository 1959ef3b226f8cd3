package storage

import (
	"errors"
	"os"
	"sync"
)

// MmapManager errors.
var (
	ErrMmapNotMapped      = errors.New("file is not memory mapped")
	ErrMmapAlreadyMapped  = errors.New("file is already memory mapped")
	ErrMmapClosed         = errors.New("mmap manager is closed")
	ErrMmapPageOutOfRange = errors.New("page id out of mmap range")
	ErrFileNotOpen        = errors.New("file not open")
)

// MmapManager maps the index file into memory so page reads can be
// served without a read system call. The disk manager uses it as an
// optional read path; writes always go through the file descriptor.
type MmapManager struct {
	file      *os.File
	data      []byte // mmap'd region
	size      int64  // current mapped size
	mu        sync.RWMutex
	closed    bool
	mapHandle uintptr // Windows file mapping handle (unused on Unix)
}

// NewMmapManager maps size bytes of the given file. If size is zero the
// current file size is used, rounded up to a page boundary.
func NewMmapManager(file *os.File, size int64) (*MmapManager, error) {
	if file == nil {
		return nil, ErrFileNotOpen
	}

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		size = info.Size()
	}
	if size < PageSize {
		size = PageSize
	}
	size = alignToPageSize(size)

	if info.Size() < size {
		if err := file.Truncate(size); err != nil {
			return nil, err
		}
	}

	m := &MmapManager{
		file: file,
		size: size,
	}

	if err := m.mapFile(); err != nil {
		return nil, err
	}

	return m, nil
}

// alignToPageSize rounds a size up to the next page boundary.
func alignToPageSize(size int64) int64 {
	if size%PageSize == 0 {
		return size
	}
	return ((size / PageSize) + 1) * PageSize
}

// Close unmaps the file and releases resources.
func (m *MmapManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMmapClosed
	}

	m.closed = true

	if m.data == nil {
		return nil
	}

	return m.unmapFile()
}

// GetPage returns a slice into the mapped region for the given page id.
// This is a zero-copy view; callers must copy the bytes they keep.
func (m *MmapManager) GetPage(id PageID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrMmapClosed
	}
	if m.data == nil {
		return nil, ErrMmapNotMapped
	}

	offset := int64(id) * PageSize
	end := offset + PageSize
	if offset < 0 || end > m.size {
		return nil, ErrMmapPageOutOfRange
	}

	return m.data[offset:end], nil
}

// Size returns the currently mapped size in bytes.
func (m *MmapManager) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// Remap grows the mapping to cover at least size bytes. Called by the
// disk manager after the file is extended.
func (m *MmapManager) Remap(size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMmapClosed
	}

	size = alignToPageSize(size)
	if size <= m.size {
		return nil
	}

	if err := m.unmapFile(); err != nil {
		return err
	}

	info, err := m.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < size {
		if err := m.file.Truncate(size); err != nil {
			return err
		}
	}

	m.size = size
	return m.mapFile()
}

// Sync flushes the mapped region to the underlying file.
func (m *MmapManager) Sync() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrMmapClosed
	}

	return m.syncFile()
}
