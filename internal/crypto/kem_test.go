package crypto_test

import (
	"errors"
	"testing"
	"time"

	"kyberbench/internal/crypto"

	"github.com/cloudflare/circl/kem/kyber/kyber768"
	"github.com/stretchr/testify/require"
)

func TestSchemeByName(t *testing.T) {
	tests := []struct {
		name    string
		scheme  string
		wantErr bool
	}{
		{name: "default", scheme: crypto.DefaultScheme},
		{name: "kyber512", scheme: "Kyber512"},
		{name: "ml-kem", scheme: "ML-KEM-768"},
		{name: "unknown", scheme: "NotAKem", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sch, err := crypto.SchemeByName(tt.scheme)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, crypto.ErrUnknownScheme))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.scheme, sch.Name())
		})
	}
}

func TestSizesOfKyber768(t *testing.T) {
	s := crypto.SizesOf(crypto.KyberScheme)
	require.Equal(t, kyber768.PublicKeySize, s.PublicKey)
	require.Equal(t, kyber768.PrivateKeySize, s.PrivateKey)
	require.Equal(t, 1088, s.Ciphertext)
	require.Equal(t, 32, s.SharedSecret)
}

func TestAdapterRoundTrip(t *testing.T) {
	a := crypto.NewAdapter(crypto.NewCirclKEM(crypto.KyberScheme))

	for i := 0; i < 20; i++ {
		kp, err := a.Keygen()
		require.NoError(t, err)
		require.GreaterOrEqual(t, kp.ElapsedMs, 0.0)

		pkBytes, err := kp.Public.MarshalBinary()
		require.NoError(t, err)
		skBytes, err := kp.Private.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, len(pkBytes)+len(skBytes), kp.KeyBytes)

		enc, err := a.Encapsulate(kp.Public)
		require.NoError(t, err)
		require.Equal(t, len(enc.Ciphertext), enc.CiphertextBytes)
		require.Equal(t, 1088, enc.CiphertextBytes)

		dec, err := a.Decapsulate(enc.Ciphertext, kp.Private)
		require.NoError(t, err)
		require.Equal(t, enc.SharedSecret, dec.SharedSecret)
		require.Equal(t, 32, dec.SecretBytes)
	}
}

func TestAdapterCapabilityFailure(t *testing.T) {
	a := crypto.NewAdapter(crypto.NewCirclKEM(crypto.KyberScheme))
	kp, err := a.Keygen()
	require.NoError(t, err)

	_, err = a.Decapsulate([]byte("short"), kp.Private)
	require.Error(t, err)
	require.True(t, errors.Is(err, crypto.ErrCapabilityFailure))

	_, err = a.Encapsulate(nil)
	require.True(t, errors.Is(err, crypto.ErrBadKey))
}

func TestSeededKEMIsDeterministic(t *testing.T) {
	base := crypto.NewCirclKEM(crypto.KyberScheme)

	run := func(seed uint64, trial int) ([]byte, []byte) {
		k := base.WithSeedStream(crypto.NewSeedStream(seed, trial))
		pk, _, err := k.GenerateKeyPair()
		require.NoError(t, err)
		ct, _, err := k.Encapsulate(pk)
		require.NoError(t, err)
		pkBytes, err := pk.MarshalBinary()
		require.NoError(t, err)
		return pkBytes, ct
	}

	pk1, ct1 := run(42, 3)
	pk2, ct2 := run(42, 3)
	require.Equal(t, pk1, pk2)
	require.Equal(t, ct1, ct2)

	pk3, _ := run(42, 4)
	require.NotEqual(t, pk1, pk3)
}

func TestSeedStreamAdvances(t *testing.T) {
	s := crypto.NewSeedStream(7, 0)

	a, err := s.Next(32)
	require.NoError(t, err)
	b, err := s.Next(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.Equal(t, uint64(2), s.Index)

	again, err := crypto.NewSeedStream(7, 0).Next(32)
	require.NoError(t, err)
	require.Equal(t, a, again)
}

func TestMillis(t *testing.T) {
	require.InDelta(t, 1.5, crypto.Millis(1500*time.Microsecond), 1e-9)
	require.Equal(t, 0.0, crypto.Millis(0))
}
