package entity

import "errors"

// ErrFileNotFound reports a question attachment that is absent locally and upstream.
var ErrFileNotFound = errors.New("file not found")
