package vhttp

import "github.com/sophialabs/vhttp/internal/domain/vherr"

// Error is the error type returned by registries and clients. Its Kind
// tells which of the sentinels below it matches.
type Error = vherr.Error

// ErrorKind categorizes an Error.
type ErrorKind = vherr.Kind

// Sentinels for errors.Is.
var (
	ErrUnknownScenario    = vherr.ErrUnknownScenario
	ErrNoMatchingCall     = vherr.ErrNoMatchingCall
	ErrFixtureLoad        = vherr.ErrFixtureLoad
	ErrFixtureParse       = vherr.ErrFixtureParse
	ErrIncompleteScenario = vherr.ErrIncompleteScenario
	ErrTransport          = vherr.ErrTransport
)

// IsTimeout reports whether err is a send that ran out of time, either on
// the network or during a simulated response delay.
func IsTimeout(err error) bool {
	return vherr.IsTimeout(err)
}
