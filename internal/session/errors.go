package session

import "errors"

var (
	// ErrNoSession is returned when there is no token, or after Logout
	ErrNoSession = errors.New("no active session")
	// ErrTokenExpired is returned when the access token has expired and cannot be refreshed
	ErrTokenExpired = errors.New("access token expired")
	// ErrMalformedToken is returned when a token cannot be decoded as a JWT
	ErrMalformedToken = errors.New("malformed access token")
)
