package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Errors for DiskManager operations.
var (
	ErrFileClosed       = errors.New("disk manager is closed")
	ErrReadOnly         = errors.New("disk manager is read-only")
	ErrPageAlreadyFree  = errors.New("page is already free")
	ErrCannotFreeHeader = errors.New("cannot free header page")
)

// Options configures the DiskManager.
type Options struct {
	CreateIfNew bool // Create file if it doesn't exist
	ReadOnly    bool // Open in read-only mode
	SyncOnWrite bool // Sync to disk after each write
	UseMmap     bool // Serve reads through a memory mapping
}

// DefaultOptions returns the default DiskManager options.
func DefaultOptions() Options {
	return Options{
		CreateIfNew: true,
	}
}

// DiskManager handles page allocation, deallocation and page I/O against
// a single index file. Page i lives at byte offset i*PageSize. Page 0 is
// reserved for the header page and is allocated when the file is created.
type DiskManager struct {
	file        *os.File
	path        string
	nextPageID  PageID // one past the highest allocated page
	freeList    *FreeList
	mmap        *MmapManager
	mu          sync.Mutex
	readOnly    bool
	syncOnWrite bool
	closed      bool
}

// OpenDiskManager opens or creates the index file at path.
func OpenDiskManager(path string, opts Options) (*DiskManager, error) {
	dm := &DiskManager{
		path:        path,
		freeList:    NewFreeList(),
		readOnly:    opts.ReadOnly,
		syncOnWrite: opts.SyncOnWrite,
	}

	_, err := os.Stat(path)
	fileExists := err == nil

	if !fileExists && !opts.CreateIfNew {
		return nil, os.ErrNotExist
	}

	var flags int
	if opts.ReadOnly {
		flags = os.O_RDONLY
	} else {
		flags = os.O_RDWR
		if !fileExists {
			flags |= os.O_CREATE
		}
	}

	dm.file, err = os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	if fileExists {
		info, err := dm.file.Stat()
		if err != nil {
			dm.file.Close()
			return nil, err
		}
		dm.nextPageID = PageID(info.Size() / PageSize)
		if dm.nextPageID == 0 {
			dm.nextPageID = 1
		}
	} else {
		// Reserve page 0 for the header page.
		if err := dm.file.Truncate(PageSize); err != nil {
			dm.file.Close()
			os.Remove(path)
			return nil, fmt.Errorf("failed to initialize file: %w", err)
		}
		dm.nextPageID = 1
	}

	// Writes always go through the file descriptor, so the mapping is only
	// a read path; it is grown as the file grows.
	if opts.UseMmap && !opts.ReadOnly {
		m, err := NewMmapManager(dm.file, int64(dm.nextPageID)*PageSize)
		if err != nil {
			dm.file.Close()
			return nil, fmt.Errorf("failed to map file: %w", err)
		}
		dm.mmap = m
	}

	return dm, nil
}

// Close flushes and closes the index file.
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.closed {
		return ErrFileClosed
	}
	dm.closed = true

	if dm.mmap != nil {
		if err := dm.mmap.Close(); err != nil {
			dm.file.Close()
			return err
		}
	}

	if !dm.readOnly {
		if err := dm.file.Sync(); err != nil {
			dm.file.Close()
			return err
		}
	}

	return dm.file.Close()
}

// AllocatePage allocates a new page, reusing a freed page when possible.
func (dm *DiskManager) AllocatePage() (PageID, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.closed {
		return InvalidPageID, ErrFileClosed
	}
	if dm.readOnly {
		return InvalidPageID, ErrReadOnly
	}

	if id, ok := dm.freeList.Pop(); ok {
		return id, nil
	}

	id := dm.nextPageID
	newSize := int64(id+1) * PageSize
	if err := dm.file.Truncate(newSize); err != nil {
		return InvalidPageID, fmt.Errorf("failed to grow file: %w", err)
	}
	if dm.mmap != nil {
		if err := dm.mmap.Remap(newSize); err != nil {
			return InvalidPageID, err
		}
	}
	dm.nextPageID = id + 1

	return id, nil
}

// DeallocatePage returns a page to the free list for reuse.
func (dm *DiskManager) DeallocatePage(id PageID) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.closed {
		return ErrFileClosed
	}
	if dm.readOnly {
		return ErrReadOnly
	}
	if id == HeaderPageID {
		return ErrCannotFreeHeader
	}
	if id <= InvalidPageID || id >= dm.nextPageID {
		return ErrPageOutOfRange
	}
	if dm.freeList.Contains(id) {
		return ErrPageAlreadyFree
	}

	dm.freeList.Push(id)
	return nil
}

// ReadPage reads the page into buf, which must be PageSize bytes.
func (dm *DiskManager) ReadPage(id PageID, buf []byte) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.closed {
		return ErrFileClosed
	}
	if id <= InvalidPageID {
		return ErrInvalidPageID
	}
	if id >= dm.nextPageID {
		return ErrPageOutOfRange
	}

	if dm.mmap != nil {
		src, err := dm.mmap.GetPage(id)
		if err == nil {
			copy(buf, src)
			return nil
		}
		// Fall through to the read syscall if the mapping lags behind.
	}

	n, err := dm.file.ReadAt(buf[:PageSize], int64(id)*PageSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read page %d: %w", id, err)
	}
	if n < PageSize {
		return fmt.Errorf("incomplete page read: got %d bytes, expected %d", n, PageSize)
	}

	return nil
}

// WritePage writes the page data, which must be PageSize bytes.
func (dm *DiskManager) WritePage(id PageID, data []byte) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.closed {
		return ErrFileClosed
	}
	if dm.readOnly {
		return ErrReadOnly
	}
	if id <= InvalidPageID {
		return ErrInvalidPageID
	}
	if id >= dm.nextPageID {
		return ErrPageOutOfRange
	}

	if _, err := dm.file.WriteAt(data[:PageSize], int64(id)*PageSize); err != nil {
		return fmt.Errorf("failed to write page %d: %w", id, err)
	}

	if dm.syncOnWrite {
		if err := dm.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync after write: %w", err)
		}
	}

	return nil
}

// Sync flushes all pending writes to disk.
func (dm *DiskManager) Sync() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.closed {
		return ErrFileClosed
	}

	return dm.file.Sync()
}

// NumPages returns the number of pages in the file, including freed ones.
func (dm *DiskManager) NumPages() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return int(dm.nextPageID)
}

// FreePageCount returns the number of pages on the free list.
func (dm *DiskManager) FreePageCount() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.freeList.Count()
}

// Path returns the index file path.
func (dm *DiskManager) Path() string {
	return dm.path
}
