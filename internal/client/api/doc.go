// Package api is a thin JSON client for the control panel HTTP surface.
//
// Every method maps one route. Non-2xx responses are decoded from the
// server's error envelope into *Error so callers can branch on Code.
package api
