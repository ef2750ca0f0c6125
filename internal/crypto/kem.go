package crypto

import (
	"fmt"

	"github.com/cloudflare/circl/kem"
)

// KEM is the capability the harness measures. Implementations must be safe
// to call from one goroutine at a time; give each worker its own value when
// they carry state such as a SeedStream.
type KEM interface {
	Scheme() kem.Scheme
	GenerateKeyPair() (kem.PublicKey, kem.PrivateKey, error)
	Encapsulate(pk kem.PublicKey) (ct, ss []byte, err error)
	Decapsulate(sk kem.PrivateKey, ct []byte) ([]byte, error)
}

// CirclKEM drives a circl scheme. With a SeedStream attached, key pairs and
// encapsulations are derived from it instead of crypto/rand.
type CirclKEM struct {
	scheme kem.Scheme
	seeds  *SeedStream
}

func NewCirclKEM(scheme kem.Scheme) *CirclKEM {
	return &CirclKEM{scheme: scheme}
}

// WithSeedStream returns a copy of k that draws its randomness from s.
func (k *CirclKEM) WithSeedStream(s *SeedStream) *CirclKEM {
	return &CirclKEM{scheme: k.scheme, seeds: s}
}

func (k *CirclKEM) Scheme() kem.Scheme { return k.scheme }

func (k *CirclKEM) GenerateKeyPair() (kem.PublicKey, kem.PrivateKey, error) {
	if k.seeds == nil {
		pk, sk, err := k.scheme.GenerateKeyPair()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: keygen: %w", ErrCapabilityFailure, err)
		}
		return pk, sk, nil
	}
	seed, err := k.seeds.Next(k.scheme.SeedSize())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: keygen seed: %w", ErrCapabilityFailure, err)
	}
	pk, sk := k.scheme.DeriveKeyPair(seed)
	return pk, sk, nil
}

func (k *CirclKEM) Encapsulate(pk kem.PublicKey) ([]byte, []byte, error) {
	if pk == nil {
		return nil, nil, ErrBadKey.WithDetails("nil public key")
	}
	var (
		ct, ss []byte
		err    error
	)
	if k.seeds == nil {
		ct, ss, err = k.scheme.Encapsulate(pk)
	} else {
		var seed []byte
		seed, err = k.seeds.Next(k.scheme.EncapsulationSeedSize())
		if err == nil {
			ct, ss, err = k.scheme.EncapsulateDeterministically(pk, seed)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: encapsulate: %w", ErrCapabilityFailure, err)
	}
	return ct, ss, nil
}

func (k *CirclKEM) Decapsulate(sk kem.PrivateKey, ct []byte) ([]byte, error) {
	if sk == nil {
		return nil, ErrBadKey.WithDetails("nil private key")
	}
	ss, err := k.scheme.Decapsulate(sk, ct)
	if err != nil {
		return nil, fmt.Errorf("%w: decapsulate: %w", ErrCapabilityFailure, err)
	}
	return ss, nil
}
