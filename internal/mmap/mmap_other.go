//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package mmap

import "os"

// Open reads path into memory; this platform has no mmap support.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

func (f *File) Close() error {
	f.data = nil
	return nil
}
