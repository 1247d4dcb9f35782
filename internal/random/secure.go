// Package random provides cryptographically secure randomization for DNS
// query construction.
//
// Attack model: Kaminsky-style cache poisoning and its descendants rely on
// guessing the outgoing query's transaction ID (and, for a resolver that
// reuses source ports, the source port too). crypto/rand keeps the ID
// unpredictable; math/rand would hand an attacker back the 16 bits of
// entropy this exists to protect.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// TransactionID generates a cryptographically random 16-bit transaction ID.
// NEVER use math/rand for DNS transaction IDs - it's predictable!
func TransactionID() uint16 {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen, but if it does, panic is appropriate
		// because proceeding with predictable IDs is a critical security flaw.
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return binary.BigEndian.Uint16(buf[:])
}

// ClientCookieEntropy generates the 8 random octets backing a fresh EDNS
// client cookie (RFC 7873 §4). A client regenerates these whenever it has
// no cached cookie for the target endpoint.
func ClientCookieEntropy() [8]byte {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return buf
}
