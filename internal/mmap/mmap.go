// Package mmap maps input files read-only so large documents are minified
// without first being copied onto the heap.
package mmap

// File is a read-only view of a file's contents.
type File struct {
	data   []byte
	mapped bool
}

// Bytes returns the contents. The slice is invalid after Close.
func (f *File) Bytes() []byte {
	return f.data
}

func (f *File) Len() int {
	return len(f.data)
}

// Mapped reports whether the contents are backed by a memory mapping.
func (f *File) Mapped() bool {
	return f.mapped
}
