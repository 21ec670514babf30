package corpus

import "errors"

var (
	// ErrMissingFile is returned when a required corpus file does not exist.
	ErrMissingFile = errors.New("corpus file missing")

	// ErrMalformedCorpus is returned when a corpus file cannot be decoded or
	// fails validation.
	ErrMalformedCorpus = errors.New("malformed corpus")
)
