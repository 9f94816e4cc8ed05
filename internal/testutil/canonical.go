// Package testutil holds assertions shared by the codec's tests.
package testutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zefchain/bcs"
)

// AssertCanonical encodes v and checks that the bytes decode back to v
// through both the strict and the streaming path, that decoding then
// re-encoding reproduces the same bytes, and that SerializedSize agrees.
// It returns the encoding so callers can also pin exact bytes.
func AssertCanonical[T any, PT interface {
	*T
	bcs.Value
}](t testing.TB, v T) []byte {
	t.Helper()

	encoded, err := bcs.ToBytes(PT(&v))
	require.NoError(t, err, "encode")

	size, err := bcs.SerializedSize(PT(&v))
	require.NoError(t, err, "size")
	require.Equal(t, len(encoded), size, "serialized size")

	var strict T
	require.NoError(t, bcs.FromBytes(encoded, PT(&strict)), "strict decode")
	require.Equal(t, v, strict, "strict round trip")

	reencoded, err := bcs.ToBytes(PT(&strict))
	require.NoError(t, err, "re-encode")
	require.Equal(t, encoded, reencoded, "re-encoding must be byte-identical")

	// A streaming decode stops at the end of the value.
	r := bytes.NewReader(append(append([]byte(nil), encoded...), 0xff))
	var streamed T
	require.NoError(t, bcs.FromReader(r, PT(&streamed)), "streaming decode")
	require.Equal(t, v, streamed, "streaming round trip")
	require.Equal(t, 1, r.Len(), "streaming decode must leave trailing bytes")

	var trailing T
	err = bcs.FromBytes(append(append([]byte(nil), encoded...), 0x00), PT(&trailing))
	require.ErrorIs(t, err, bcs.ErrRemainingInput, "strict decode with trailing input")

	return encoded
}
