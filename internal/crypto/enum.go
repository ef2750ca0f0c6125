package crypto

import (
	"github.com/cloudflare/circl/kem"
	ks "github.com/cloudflare/circl/kem/schemes"
)

// DefaultScheme is the parameter set the harness measures unless told otherwise.
const DefaultScheme = "Kyber768"

var KyberScheme = ks.ByName(DefaultScheme)

// SchemeByName resolves any KEM registered with circl ("Kyber512",
// "ML-KEM-768", "X25519-Kyber768-Draft00", ...).
func SchemeByName(name string) (kem.Scheme, error) {
	sch := ks.ByName(name)
	if sch == nil {
		return nil, ErrUnknownScheme.WithDetails(name)
	}
	return sch, nil
}

// Sizes are the serialized artifact lengths of a scheme, in bytes.
type Sizes struct {
	PublicKey    int
	PrivateKey   int
	Ciphertext   int
	SharedSecret int
}

func SizesOf(sch kem.Scheme) Sizes {
	return Sizes{
		PublicKey:    sch.PublicKeySize(),
		PrivateKey:   sch.PrivateKeySize(),
		Ciphertext:   sch.CiphertextSize(),
		SharedSecret: sch.SharedKeySize(),
	}
}
