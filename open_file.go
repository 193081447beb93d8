package e57

import (
	"io"
	"os"
)

// OpenFile opens path and parses it as described by Open. The returned
// Reader keeps the file open for the lifetime of the session; callers
// should arrange to close the file once done (e.g. via the returned
// io.Closer's Close, or by keeping ownership of the os.File themselves).
func OpenFile(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, ioErr("Failed to open file", err)
	}
	r, err := Open(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}
