// Package httpapi exposes the control panel over HTTP/JSON: signup and
// login, the authenticated account, the widget layout and the health
// summary, plus liveness and Prometheus metrics endpoints.
package httpapi
