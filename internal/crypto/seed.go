package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SeedStream is a forward-only key schedule that hands out fixed-size seeds
// for deterministic key generation and encapsulation.
type SeedStream struct {
	ChainKey []byte // secret state
	Index    uint64 // seeds handed out so far
}

// NewSeedStream derives the initial chain key for one trial of a seeded run.
// Streams for different (seed, trial) pairs are independent.
func NewSeedStream(seed uint64, trial int) *SeedStream {
	var ikm [8]byte
	binary.BigEndian.PutUint64(ikm[:], seed)
	info := make([]byte, 8)
	binary.BigEndian.PutUint64(info, uint64(trial))

	chain := make([]byte, 32)
	hk := hkdf.New(sha256.New, ikm[:], []byte("kyberbench/trial"), info)
	// hkdf only fails past 255*HashLen bytes
	_, _ = io.ReadFull(hk, chain)
	return &SeedStream{ChainKey: chain}
}

// Next returns n fresh seed bytes and advances the chain.
func (s *SeedStream) Next(n int) ([]byte, error) {
	info := make([]byte, 8)
	binary.BigEndian.PutUint64(info, s.Index)
	hk := hkdf.New(sha256.New, s.ChainKey, nil, info)

	out := make([]byte, n)
	if _, err := io.ReadFull(hk, out); err != nil {
		return nil, err
	}

	// Advance chain key = HMAC(ChainKey, constant)
	mac := hmac.New(sha256.New, s.ChainKey)
	mac.Write([]byte("ratchet"))
	s.ChainKey = mac.Sum(nil)

	s.Index++
	return out, nil
}
