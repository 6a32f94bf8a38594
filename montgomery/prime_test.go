package montgomery_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tqolf/go-mpi/internal/testrand"
	"github.com/tqolf/go-mpi/montgomery"
	"github.com/tqolf/go-mpi/natural"
)

func TestIsPrimeKnownPrimesAndComposites(t *testing.T) {
	rng := testrand.SHAKE("TestIsPrimeKnownPrimesAndComposites", []byte("seed"))

	primes := []uint64{2, 3, 5, 7, 104729, 2147483647}
	for _, p := range primes {
		ok, err := montgomery.IsPrime(natural.Natural{p}, rng)
		require.NoError(t, err)
		require.Truef(t, ok, "%d should be prime", p)
	}

	composites := []uint64{0, 1, 4, 6, 9, 100, 104730}
	for _, c := range composites {
		ok, err := montgomery.IsPrime(natural.Natural{c}, rng)
		require.NoError(t, err)
		require.Falsef(t, ok, "%d should not be prime", c)
	}
}
