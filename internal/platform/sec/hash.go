// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for credential hashing.
//
// The identifier space (13 structured digits) is far smaller than a real
// password space, so the hash must be memory-hard: a leaked credential table
// has to resist offline brute force on GPU rigs. Parameters follow the
// RFC 9106 second recommended option (64 MiB, 3 passes).
const (
	argonMemory      = 64 * 1024
	argonTime        = 3
	argonParallelism = 2
	argonSaltLength  = 16
	argonKeyLength   = 32
)

// HashIdentifier hashes a sensitive identifier with Argon2id and a fresh
// random salt.
//
// # Format
//
// The encoded result is self-describing PHC style:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<b64(salt)>$<b64(key)>
//
// so parameters can be tuned later without invalidating stored hashes.
func HashIdentifier(identifier string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(identifier), salt, argonTime, argonMemory, argonParallelism, argonKeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyIdentifier checks a sensitive identifier against a stored hash.
//
// The comparison runs in constant time regardless of where the derived keys
// differ. A malformed stored hash is a verification failure, never a crash.
func VerifyIdentifier(identifier, encodedHash string) bool {
	memory, timeCost, parallelism, salt, expectedKey, ok := decodeHash(encodedHash)
	if !ok {
		return false
	}

	key := argon2.IDKey([]byte(identifier), salt, timeCost, memory, parallelism, uint32(len(expectedKey)))
	return subtle.ConstantTimeCompare(key, expectedKey) == 1
}

// decodeHash parses the PHC-style encoded hash. Any structural anomaly
// reports !ok rather than an error: callers treat all malformed input the
// same way.
func decodeHash(encoded string) (memory, timeCost uint32, parallelism uint8, salt, key []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, false
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &parallelism); err != nil {
		return 0, 0, 0, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, false
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return 0, 0, 0, nil, nil, false
	}

	return memory, timeCost, parallelism, salt, key, true
}
