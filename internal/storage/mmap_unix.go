//go:build unix || darwin || linux

package storage

import "golang.org/x/sys/unix"

// mapFile performs the actual memory mapping using unix.Mmap.
func (m *MmapManager) mapFile() error {
	if m.data != nil {
		return ErrMmapAlreadyMapped
	}

	// MAP_SHARED so the mapping observes writes made through the file
	// descriptor on the same file.
	data, err := unix.Mmap(int(m.file.Fd()), 0, int(m.size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return err
	}

	m.data = data
	return nil
}

// unmapFile unmaps the memory-mapped region.
func (m *MmapManager) unmapFile() error {
	if m.data == nil {
		return nil
	}

	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

// syncFile flushes changes to the underlying file using msync.
func (m *MmapManager) syncFile() error {
	if m.data == nil {
		return ErrMmapNotMapped
	}

	return unix.Msync(m.data, unix.MS_SYNC)
}
