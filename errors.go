package main

import "errors"

// Sentinel errors surfaced by the command line front end.
var (
	ErrNoInput        = errors.New("no input given")
	ErrTooManyInputs  = errors.New("multiple inputs require -d outdir")
	ErrNotWellFormed  = errors.New("output is not well-formed XML")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrConfigTooLarge = errors.New("config file exceeds maximum size")
	ErrNothingWritten = errors.New("no inputs converted")
	ErrEmptyArticle   = errors.New("readability extracted no content")
)
