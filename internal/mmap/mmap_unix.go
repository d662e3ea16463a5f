//go:build linux || darwin || freebsd || netbsd || openbsd

package mmap

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps path into memory. Empty files are returned as an empty view
// since they cannot be mapped.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		// Pipes and devices have no stable size to map.
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return &File{data: data}, nil
	}
	size := fi.Size()
	if size == 0 {
		return &File{}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("mmap: %s is too large to map", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", path, err)
	}
	// Advisory only, a failure changes nothing.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return &File{data: data, mapped: true}, nil
}

// Close unmaps the file.
func (f *File) Close() error {
	if !f.mapped {
		f.data = nil
		return nil
	}
	data := f.data
	f.data = nil
	f.mapped = false
	return unix.Munmap(data)
}
