// Package adaptive provides adaptive at-rest encryption for kvshardd
// snapshots.
//
// This package implements a cipher abstraction that automatically
// selects an encryption algorithm based on the target architecture
// (runtime.GOARCH).
//
// Supported Algorithms:
//
//   - AES-GCM (16-, 24- or 32-byte key): selected on amd64 and arm64
//   - ChaCha20-Poly1305 (32-byte key): selected on other architectures
//
// Features:
//
//   - Architecture-based selection; the CPU itself is not probed
//   - AEAD: Authenticated encryption with associated data
//   - Keys are used as given; no key derivation is performed
//   - Thread Safety: All cipher operations are thread-safe
//
// Usage:
//
//	cipher, err := adaptive.New(key)
//	encrypted, err := cipher.Encrypt(plaintext, aad)
//	plaintext, err := cipher.Decrypt(encrypted, aad)
package adaptive
