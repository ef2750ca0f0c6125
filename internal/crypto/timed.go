package crypto

import (
	"fmt"
	"time"

	"github.com/cloudflare/circl/kem"
)

// TimedKeypair is the result of Adapter.Keygen. KeyBytes is the serialized
// length of the public key plus the private key.
type TimedKeypair struct {
	Public    kem.PublicKey
	Private   kem.PrivateKey
	ElapsedMs float64
	KeyBytes  int
}

type TimedEncapsulation struct {
	Ciphertext      []byte
	SharedSecret    []byte
	ElapsedMs       float64
	CiphertextBytes int
}

type TimedDecapsulation struct {
	SharedSecret []byte
	ElapsedMs    float64
	SecretBytes  int
}

// Adapter wraps the three KEM operations with wall-clock timing. Only the
// capability call sits inside the timed region; serialization for size
// accounting happens after the clock stops.
type Adapter struct {
	kem KEM
}

func NewAdapter(k KEM) *Adapter {
	return &Adapter{kem: k}
}

func (a *Adapter) KEM() KEM { return a.kem }

func (a *Adapter) Keygen() (*TimedKeypair, error) {
	start := time.Now()
	pk, sk, err := a.kem.GenerateKeyPair()
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	pkBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: marshal public key: %w", ErrCapabilityFailure, err)
	}
	skBytes, err := sk.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: marshal private key: %w", ErrCapabilityFailure, err)
	}

	return &TimedKeypair{
		Public:    pk,
		Private:   sk,
		ElapsedMs: Millis(elapsed),
		KeyBytes:  len(pkBytes) + len(skBytes),
	}, nil
}

func (a *Adapter) Encapsulate(pk kem.PublicKey) (*TimedEncapsulation, error) {
	start := time.Now()
	ct, ss, err := a.kem.Encapsulate(pk)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	return &TimedEncapsulation{
		Ciphertext:      ct,
		SharedSecret:    ss,
		ElapsedMs:       Millis(elapsed),
		CiphertextBytes: len(ct),
	}, nil
}

func (a *Adapter) Decapsulate(ct []byte, sk kem.PrivateKey) (*TimedDecapsulation, error) {
	start := time.Now()
	ss, err := a.kem.Decapsulate(sk, ct)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	return &TimedDecapsulation{
		SharedSecret: ss,
		ElapsedMs:    Millis(elapsed),
		SecretBytes:  len(ss),
	}, nil
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
