package model

import "errors"

var (
	// Auth related errors
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionEnded       = errors.New("session ended, please log in again")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")

	// Interview session errors
	ErrNoActiveQuestion   = errors.New("no active question to answer")
	ErrInterviewInactive  = errors.New("interview is no longer active")
	ErrInterviewNotLoaded = errors.New("interview not loaded")
	ErrSessionClosed      = errors.New("session view closed")
	ErrSessionFinished    = errors.New("interview session already finished")

	// Backend contract errors
	ErrMalformedResponse = errors.New("malformed response")

	// Generic errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
