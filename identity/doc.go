// Package identity is the identity-store collaborator: it resolves a subject
// or alias to a principal with its role, activation flag, and password hash.
//
// The authentication core only reads principals and records the last login
// time. Account administration lives outside this module.
package identity
