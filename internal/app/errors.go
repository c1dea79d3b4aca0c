package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidModel = errors.New("unsupported model")

	// ErrRetrievalFailure covers embedding the query and querying the vector
	// index; ErrGenerationFailure covers every chat-completion call. Both
	// propagate to the caller, never a partial answer.
	ErrRetrievalFailure  = errors.New("retrieval failed")
	ErrGenerationFailure = errors.New("generation failed")

	// ErrPersistenceFailure covers conversation-log reads and writes. It is
	// reported but never blocks returning an already-computed answer.
	ErrPersistenceFailure = errors.New("persistence failed")
)
