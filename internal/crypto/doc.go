// Package crypto exposes the hashing primitives used by dsexport.
//
// Contents
//
//   - BLAKE2b-256 digests of saved export payloads (Digest)
//   - Short digest fingerprints for display/logging (Fingerprint)
package crypto
