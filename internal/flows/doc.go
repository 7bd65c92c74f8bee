// Package flows contains pure-function orchestrators for the Engine's
// request paths: the authentication gate, login, and logout.
//
// Each flow function accepts a typed dependency struct and returns results
// without side effects beyond those dependencies, so flows are unit-tested
// with plain function fakes and the Engine stays thin.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import the root sessionauth package (to avoid import cycles).
//   - Perform I/O directly. All I/O is mediated through dependencies.
package flows
