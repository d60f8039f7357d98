package main

import "errors"

var (
	ErrInvalidRange        = errors.New("invalid page range")
	ErrClassification      = errors.New("response is not a declared deck type")
	ErrMalformedGeneration = errors.New("response does not parse into cards")
	ErrRegistryCorrupt     = errors.New("category registry is unreadable")
	ErrRoutingConflict     = errors.New("deck path resolves to a conflicting deck")
)
