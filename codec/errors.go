package codec

// invalidFileError lets the e57 package recover an InvalidFile sub-reason
// from an error this package returns, without an import cycle back to the
// e57 package (same pattern as pointcloud.dataTypeError).
type invalidFileError struct {
	sub     string
	context string
}

func (e *invalidFileError) Error() string { return e.context + ": " + e.sub }

func (e *invalidFileError) InvalidFileReason() string { return e.sub }
