//go:build windows

package storage

import (
	"syscall"
	"unsafe"
)

var (
	modkernel32           = syscall.NewLazyDLL("kernel32.dll")
	procCreateFileMapping = modkernel32.NewProc("CreateFileMappingW")
	procMapViewOfFile     = modkernel32.NewProc("MapViewOfFile")
	procUnmapViewOfFile   = modkernel32.NewProc("UnmapViewOfFile")
	procFlushViewOfFile   = modkernel32.NewProc("FlushViewOfFile")
)

const (
	pageReadWrite = 0x04
	fileMapRead   = 0x04
	fileMapWrite  = 0x02
)

// mapFile performs the actual memory mapping using the Windows API.
func (m *MmapManager) mapFile() error {
	if m.data != nil {
		return ErrMmapAlreadyMapped
	}

	handle := syscall.Handle(m.file.Fd())

	sizeLow := uint32(m.size)
	sizeHigh := uint32(m.size >> 32)

	mapHandle, _, err := procCreateFileMapping.Call(
		uintptr(handle),
		0,
		uintptr(pageReadWrite),
		uintptr(sizeHigh),
		uintptr(sizeLow),
		0,
	)
	if mapHandle == 0 {
		return err
	}

	addr, _, err := procMapViewOfFile.Call(
		mapHandle,
		uintptr(fileMapRead|fileMapWrite),
		0,
		0,
		uintptr(m.size),
	)
	if addr == 0 {
		syscall.CloseHandle(syscall.Handle(mapHandle))
		return err
	}

	m.mapHandle = mapHandle
	m.data = unsafe.Slice((*byte)(unsafe.Pointer(addr)), m.size)

	return nil
}

// unmapFile unmaps the memory-mapped region.
func (m *MmapManager) unmapFile() error {
	if m.data == nil {
		return nil
	}

	addr := uintptr(unsafe.Pointer(&m.data[0]))

	ret, _, err := procUnmapViewOfFile.Call(addr)
	if ret == 0 {
		return err
	}

	if m.mapHandle != 0 {
		syscall.CloseHandle(syscall.Handle(m.mapHandle))
		m.mapHandle = 0
	}

	m.data = nil
	return nil
}

// syncFile flushes changes to the underlying file.
func (m *MmapManager) syncFile() error {
	if m.data == nil {
		return ErrMmapNotMapped
	}

	addr := uintptr(unsafe.Pointer(&m.data[0]))

	ret, _, err := procFlushViewOfFile.Call(addr, uintptr(len(m.data)))
	if ret == 0 {
		return err
	}

	return nil
}
