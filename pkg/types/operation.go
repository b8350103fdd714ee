package types

// OperationType defines the type of file system operation
type OperationType string

const (
	// OperationDeleteFile deletes a single file
	OperationDeleteFile OperationType = "delete_file"

	// OperationDeleteDir deletes a directory tree
	OperationDeleteDir OperationType = "delete_dir"
)

// OperationStatus defines the state of an operation
type OperationStatus string

const (
	// StatusReady means the operation is ready to be executed
	StatusReady OperationStatus = "ready"
	// StatusSkipped means the operation will not run: its target is covered
	// by another operation or is optional and absent
	StatusSkipped OperationStatus = "skipped"
	// StatusDone means the operation has been executed
	StatusDone OperationStatus = "done"
)

// Operation is a declarative removal of one project path.
type Operation struct {
	// Type is the type of operation
	Type OperationType

	// Target is the path relative to the project root
	Target string

	// Optional operations skip silently when the target does not exist.
	// Missing required targets are template drift.
	Optional bool

	// Feature names the optional template feature the operation belongs to
	Feature string

	// Description is a human-readable description
	Description string

	// Status is the current state of the operation
	Status OperationStatus
}

// DeleteFile returns a required file removal.
func DeleteFile(target string) Operation {
	return Operation{Type: OperationDeleteFile, Target: target, Status: StatusReady}
}

// DeleteDir returns a required directory tree removal.
func DeleteDir(target string) Operation {
	return Operation{Type: OperationDeleteDir, Target: target, Status: StatusReady}
}

// DeleteFileIfExists returns a file removal that tolerates a missing target.
func DeleteFileIfExists(target string) Operation {
	op := DeleteFile(target)
	op.Optional = true
	return op
}
