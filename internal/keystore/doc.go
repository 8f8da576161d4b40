// Package keystore persists encrypted private keys for several identities in
// a single JSON file and exposes the operations that add, unlock, remove,
// relabel and re-protect them.
//
// # On-disk format
//
// The current file is version 2 and holds a "keys" array, one object per
// identity. Version 1 files written by earlier releases held exactly one key
// at the top level; Load upgrades them in place the first time they are read
// and the upgrade is persisted before Load returns.
//
// # Protection
//
// Each entry is protected either by a password (Argon2id over the password
// and a per-entry random salt) or by the device (Argon2id over the machine
// id and a salt derived from it). See the kdf and sealer packages.
//
// # Concurrency
//
// A Manager serializes its own operations with a mutex. Separate processes
// using the same file are not coordinated.
package keystore
