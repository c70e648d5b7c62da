// Package soapmock is the bundled mock implementation. It reads a SoapUI
// project, picks one of its mock services and serves it with the soap
// package until stopped.
//
// The implementation registers itself as
// "mockrunner.internal.soapmock.SimpleRunner" and is only reachable through
// a boundary, never through the host namespace.
package soapmock
