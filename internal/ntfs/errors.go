// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package ntfs

import "fmt"

// Kind classifies the typed failures the NTFS reader can surface, matching
// the propagation policy: MalformedField failures taint a single attribute,
// SignatureMismatch/RangeViolation are fatal to the object being parsed,
// UnsupportedFeature is informational, and InodeOutOfRange bounds MFT
// lookups.
type Kind int

const (
	SignatureMismatch Kind = iota
	RangeViolation
	MalformedField
	UnsupportedFeature
	InodeOutOfRange
)

func (k Kind) String() string {
	switch k {
	case SignatureMismatch:
		return "SignatureMismatch"
	case RangeViolation:
		return "RangeViolation"
	case MalformedField:
		return "MalformedField"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case InodeOutOfRange:
		return "InodeOutOfRange"
	default:
		return "Unknown"
	}
}

// Error is the typed failure surfaced across the NTFS package boundary.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ntfs: %s: %s: %v", e.Kind, e.Context, e.Err)
	}
	return fmt.Sprintf("ntfs: %s: %s", e.Kind, e.Context)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

func errSignature(context string, err error) error { return newErr(SignatureMismatch, context, err) }
func errMalformed(context string, err error) error  { return newErr(MalformedField, context, err) }
func errUnsupported(context string) error           { return newErr(UnsupportedFeature, context, nil) }
func errInodeRange(context string) error            { return newErr(InodeOutOfRange, context, nil) }
