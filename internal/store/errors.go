package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when a query or mutation targets a
	// record id that does not exist in the corresponding entity table.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrStaleWrite is returned when a change loses last-write-wins: the
	// stored record already carries a logical timestamp newer than the
	// incoming one, so the write is discarded.
	ErrStaleWrite = errors.New("change is older than the stored record")

	// ErrFamilyMismatch is returned when a change targets a record that
	// exists but belongs to a different family than the caller.
	ErrFamilyMismatch = errors.New("record belongs to another family")

	// ErrEventNotFound is returned when a pending event log operation
	// targets an event id that is not queued.
	ErrEventNotFound = errors.New("pending event was not found")

	// ErrSessionNotFound is returned when no refresh session exists for
	// the requested device id, or the session has expired.
	ErrSessionNotFound = errors.New("device session was not found")

	// ErrRefreshTokenMismatch is returned when the presented refresh token
	// does not match the hash stored in the device session.
	ErrRefreshTokenMismatch = errors.New("refresh token does not match session")

	// ErrDeviceStateNotFound is returned when no sync state row exists yet
	// for the requested device.
	ErrDeviceStateNotFound = errors.New("device sync state was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
