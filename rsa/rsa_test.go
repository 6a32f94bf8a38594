package rsa_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tqolf/go-mpi/internal/testrand"
	"github.com/tqolf/go-mpi/natural"
	"github.com/tqolf/go-mpi/rsa"
)

func TestGenerateKeyRoundTrip(t *testing.T) {
	rng := testrand.SHAKE("TestGenerateKeyRoundTrip", []byte("seed-1"))
	e := natural.Natural{65537}

	key, err := rsa.GenerateKey(e, 256, rng)
	require.NoError(t, err)
	require.True(t, key.IsPrivate())
	require.True(t, key.HasCRT())

	x := natural.Natural{2}
	ct, err := key.PubCipher(x)
	require.NoError(t, err)

	pt, err := key.PrvCipher(ct)
	require.NoError(t, err)
	require.True(t, natural.Equal(pt, x))
}

func TestPrvCipherAndCRTAgree(t *testing.T) {
	rng := testrand.SHAKE("TestPrvCipherAndCRTAgree", []byte("seed-2"))
	e := natural.Natural{65537}

	key, err := rsa.GenerateKey(e, 256, rng)
	require.NoError(t, err)

	x := natural.Natural{0xDEADBEEF}
	ct, err := key.PubCipher(x)
	require.NoError(t, err)

	viaPlain, err := key.PrvCipher(ct)
	require.NoError(t, err)

	viaCRT, err := key.PrvCipherCRT(ct)
	require.NoError(t, err)

	require.True(t, natural.Equal(viaPlain, viaCRT))
	require.True(t, natural.Equal(viaPlain, x))
}

func TestFreshKeyRejectsCiphers(t *testing.T) {
	key, err := rsa.NewKey(17, 256)
	require.NoError(t, err)
	require.False(t, key.IsPrivate())
	require.False(t, key.HasCRT())

	_, err = key.PubCipher(natural.Natural{2})
	require.Error(t, err)

	_, err = key.PrvCipher(natural.Natural{2})
	require.Error(t, err)

	_, err = key.PrvCipherCRT(natural.Natural{2})
	require.Error(t, err)

	_, err = rsa.NewKey(0, 256)
	require.Error(t, err)
}

func TestPKCS1RoundTrip(t *testing.T) {
	rng := testrand.SHAKE("TestPKCS1RoundTrip", []byte("seed-3"))
	e := natural.Natural{65537}

	key, err := rsa.GenerateKey(e, 256, rng)
	require.NoError(t, err)

	pubDER, err := rsa.MarshalPKCS1PublicKey(key)
	require.NoError(t, err)
	pub, err := rsa.ParsePKCS1PublicKey(pubDER)
	require.NoError(t, err)
	require.True(t, natural.Equal(pub.N(), key.N()))
	require.True(t, natural.Equal(pub.E(), key.E()))

	reencoded, err := rsa.MarshalPKCS1PublicKey(pub)
	require.NoError(t, err)
	if diff := cmp.Diff(pubDER, reencoded); diff != "" {
		t.Fatalf("re-encoding a parsed public key changed its DER (-want +got):\n%s", diff)
	}

	privDER, err := rsa.MarshalPKCS1PrivateKey(key)
	require.NoError(t, err)
	priv, err := rsa.ParsePKCS1PrivateKey(privDER)
	require.NoError(t, err)
	require.True(t, priv.HasCRT())

	x := natural.Natural{42}
	ct, err := priv.PubCipher(x)
	require.NoError(t, err)
	pt, err := priv.PrvCipherCRT(ct)
	require.NoError(t, err)
	require.True(t, natural.Equal(pt, x))
}
