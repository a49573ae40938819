package testutil

import (
	"github.com/go-git/go-billy/v5"
)

// FaultFile wraps a billy.File and injects read/write faults. It is used to
// exercise I/O error paths without a real failing filesystem.
type FaultFile struct {
	billy.File

	// ReadErr, if set, is returned by every Read call.
	ReadErr error

	// WriteErr, if set, is returned by every Write call.
	WriteErr error

	// ShortWrite, if positive, caps the number of bytes each Write
	// accepts without reporting an error.
	ShortWrite int
}

// Read implements billy.File with fault injection.
func (f *FaultFile) Read(p []byte) (int, error) {
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}
	return f.File.Read(p)
}

// Write implements billy.File with fault injection.
func (f *FaultFile) Write(p []byte) (int, error) {
	if f.WriteErr != nil {
		return 0, f.WriteErr
	}
	if f.ShortWrite > 0 && len(p) > f.ShortWrite {
		return f.File.Write(p[:f.ShortWrite])
	}
	return f.File.Write(p)
}

// FaultFS wraps a billy.Basic filesystem, wrapping every opened or created
// file through WrapFile and optionally failing open/create outright.
type FaultFS struct {
	billy.Basic

	// OpenErr, if set, is returned by Open.
	OpenErr error

	// CreateErr, if set, is returned by Create.
	CreateErr error

	// WrapFile, if set, wraps every file handed out by Open or Create.
	WrapFile func(billy.File) billy.File
}

// Open implements billy.Basic with fault injection.
func (fs *FaultFS) Open(filename string) (billy.File, error) {
	if fs.OpenErr != nil {
		return nil, fs.OpenErr
	}
	file, err := fs.Basic.Open(filename)
	if err != nil {
		return nil, err
	}
	if fs.WrapFile != nil {
		file = fs.WrapFile(file)
	}
	return file, nil
}

// Create implements billy.Basic with fault injection.
func (fs *FaultFS) Create(filename string) (billy.File, error) {
	if fs.CreateErr != nil {
		return nil, fs.CreateErr
	}
	file, err := fs.Basic.Create(filename)
	if err != nil {
		return nil, err
	}
	if fs.WrapFile != nil {
		file = fs.WrapFile(file)
	}
	return file, nil
}
