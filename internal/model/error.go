// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

type ErrorReason int

const (
	ErrorReasonUnknown ErrorReason = iota
	ErrorReasonFetch
	ErrorReasonParse
)

func (r ErrorReason) String() string {
	switch r {
	case ErrorReasonFetch:
		return "fetch"
	case ErrorReasonParse:
		return "parse"
	}
	return "unknown"
}
