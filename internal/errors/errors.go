package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexNotFound is returned when an index is not found
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexAlreadyExists is returned when trying to create an index that already exists
	ErrIndexAlreadyExists = errors.New("index already exists")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrSameName is returned when trying to rename to the same name
	ErrSameName = errors.New("same name provided")

	// ErrMissingFields is returned when an index is constructed without Fields.
	ErrMissingFields = errors.New("index settings must declare at least one field")

	// ErrMissingID is returned when add/remove/discard is given a document
	// whose extracted external ID is empty.
	ErrMissingID = errors.New("document has no external id")

	// ErrDuplicateID is returned when add is given an external ID already
	// present in the index.
	ErrDuplicateID = errors.New("external id already indexed")

	// ErrNotIndexed is returned when remove/discard/replace targets an
	// external ID that is not currently indexed.
	ErrNotIndexed = errors.New("external id not indexed")

	// ErrInvalidKey rounds out the error kind taxonomy for a RadixMap
	// mutator given a non-string key. Go's Map[V any] takes a typed string
	// key, so the condition can't arise at runtime here; kept for parity
	// with the kind this corner of the taxonomy names.
	ErrInvalidKey = errors.New("invalid radix map key")

	// ErrInvalidPrefix is returned by radix.View.AtPrefix when the requested
	// prefix does not extend the view's own prefix.
	ErrInvalidPrefix = errors.New("prefix does not extend view prefix")

	// ErrUnknownOption rounds out the error kind taxonomy for a
	// get_default(name)-style lookup by an unrecognized option name; no
	// operation in this module exposes such a lookup, so nothing raises it.
	ErrUnknownOption = errors.New("unknown option")

	// ErrIncompatibleSerialization is returned when loading a snapshot whose
	// serialization_version is not supported.
	ErrIncompatibleSerialization = errors.New("incompatible serialization version")

	// ErrRemoveAllWithNilArg rounds out the error kind taxonomy for a
	// remove_all(nil)-vs-remove_all() distinction; this module has no
	// remove_all operation, so nothing raises it.
	ErrRemoveAllWithNilArg = errors.New("remove_all called with explicit nil argument")
)

// MissingIDError carries the field that was expected to hold the document's
// external ID.
type MissingIDError struct {
	IDField string
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("document missing external id in field '%s'", e.IDField)
}

func (e *MissingIDError) Is(target error) bool { return target == ErrMissingID }

// NewMissingIDError creates a new MissingIDError.
func NewMissingIDError(idField string) *MissingIDError {
	return &MissingIDError{IDField: idField}
}

// DuplicateIDError carries the external ID that was already indexed.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("external id '%s' is already indexed", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// NewDuplicateIDError creates a new DuplicateIDError.
func NewDuplicateIDError(id string) *DuplicateIDError {
	return &DuplicateIDError{ID: id}
}

// NotIndexedError carries the external ID that was not found.
type NotIndexedError struct {
	ID string
}

func (e *NotIndexedError) Error() string {
	return fmt.Sprintf("external id '%s' is not indexed", e.ID)
}

func (e *NotIndexedError) Is(target error) bool { return target == ErrNotIndexed }

// NewNotIndexedError creates a new NotIndexedError.
func NewNotIndexedError(id string) *NotIndexedError {
	return &NotIndexedError{ID: id}
}

// IncompatibleSerializationError carries the unsupported version number.
type IncompatibleSerializationError struct {
	Version int
}

func (e *IncompatibleSerializationError) Error() string {
	return fmt.Sprintf("unsupported serialization_version %d", e.Version)
}

func (e *IncompatibleSerializationError) Is(target error) bool {
	return target == ErrIncompatibleSerialization
}

// NewIncompatibleSerializationError creates a new IncompatibleSerializationError.
func NewIncompatibleSerializationError(version int) *IncompatibleSerializationError {
	return &IncompatibleSerializationError{Version: version}
}

// IndexNotFoundError represents an index not found error with context
type IndexNotFoundError struct {
	IndexName string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index named '%s' not found", e.IndexName)
}

func (e *IndexNotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}

// NewIndexNotFoundError creates a new IndexNotFoundError
func NewIndexNotFoundError(indexName string) *IndexNotFoundError {
	return &IndexNotFoundError{IndexName: indexName}
}

// IndexAlreadyExistsError represents an index already exists error with context
type IndexAlreadyExistsError struct {
	IndexName string
}

func (e *IndexAlreadyExistsError) Error() string {
	return fmt.Sprintf("index named '%s' already exists", e.IndexName)
}

func (e *IndexAlreadyExistsError) Is(target error) bool {
	return target == ErrIndexAlreadyExists
}

// NewIndexAlreadyExistsError creates a new IndexAlreadyExistsError
func NewIndexAlreadyExistsError(indexName string) *IndexAlreadyExistsError {
	return &IndexAlreadyExistsError{IndexName: indexName}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
	IndexName  string
}

func (e *DocumentNotFoundError) Error() string {
	if e.IndexName != "" {
		return fmt.Sprintf("document with ID '%s' not found in index '%s'", e.DocumentID, e.IndexName)
	}
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string, indexName ...string) *DocumentNotFoundError {
	err := &DocumentNotFoundError{DocumentID: documentID}
	if len(indexName) > 0 {
		err.IndexName = indexName[0]
	}
	return err
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SameNameError represents an error when trying to rename to the same name
type SameNameError struct {
	Name string
}

func (e *SameNameError) Error() string {
	return fmt.Sprintf("new name '%s' is the same as the current name", e.Name)
}

func (e *SameNameError) Is(target error) bool {
	return target == ErrSameName
}

// NewSameNameError creates a new SameNameError
func NewSameNameError(name string) *SameNameError {
	return &SameNameError{Name: name}
}
