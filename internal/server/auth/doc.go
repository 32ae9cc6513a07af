// Package auth holds the credential primitives of the control panel:
// the password composition policy, the bcrypt hasher and the JWT session
// token codec. Nothing here performs I/O; all settings are passed in
// explicitly so alternate configurations can be exercised in isolation.
package auth
