package service

import "errors"

// Failure taxonomy for ingestion and chat. ErrProcessing and
// ErrGeneration wrap their cause, so errors.Is still matches the
// sentinel while the underlying detail stays available for logs.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUnsupportedContentType = errors.New("only PDF uploads are supported")
	ErrProcessing             = errors.New("failed to process the uploaded file")
	ErrNoIndex                = errors.New("no knowledge base for this user, upload a PDF first")
	ErrGeneration             = errors.New("failed to generate an answer")
)
