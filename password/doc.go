// Package password implements one-way credential hashing and verification.
//
// # Output format
//
// New hashes are argon2id in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// bcrypt hashes ($2a$, $2b$, $2y$) are accepted by [Hasher.Verify] so identity
// stores migrated from older deployments keep working.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Verification never fails
// with an error: malformed input simply does not verify.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords.
//   - Import any other sessionauth package.
//   - Log plaintext passwords.
package password
