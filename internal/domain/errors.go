package domain

import "errors"

var (
	ErrPresetNotFound   = errors.New("preset not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrDuplicateSession = errors.New("duplicate session id")
	ErrRunNotActive     = errors.New("no simulation run is active")
	ErrRunAlreadyActive = errors.New("a simulation run is already active")
	ErrInvalidConfig    = errors.New("invalid engine config")
	ErrInvalidTarget    = errors.New("invalid target url")
)
