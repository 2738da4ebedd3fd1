package bcc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IsVohi/ByteCode-Compiler/object"
)

func TestSessionCarriesStateForward(t *testing.T) {
	var buf bytes.Buffer
	session := NewSession(WithOutput(&buf))

	_, err := session.Feed("let x = 40;")
	require.NoError(t, err)

	_, err = session.Feed("let y = x + 2;")
	require.NoError(t, err)

	_, err = session.Feed("print(y);")
	require.NoError(t, err)
	require.Equal(t, "42\n", buf.String())
}

func TestSessionCarriesFunctionsForward(t *testing.T) {
	var buf bytes.Buffer
	session := NewSession(WithOutput(&buf))

	_, err := session.Feed("fn square(n) { return n * n; }")
	require.NoError(t, err)

	_, err = session.Feed("print(square(9));")
	require.NoError(t, err)
	require.Equal(t, "81\n", buf.String())
}

func TestSessionStatementsEvaluateToVoid(t *testing.T) {
	session := NewSession(WithOutput(&bytes.Buffer{}))
	result, err := session.Feed("let x = 1;")
	require.NoError(t, err)
	require.True(t, result.Equals(object.Void))
}

func TestSessionReset(t *testing.T) {
	session := NewSession(WithOutput(&bytes.Buffer{}))

	_, err := session.Feed("let x = 1;")
	require.NoError(t, err)

	session.Reset()

	_, err = session.Feed("print(x);")
	require.Error(t, err, "x should be undefined after reset")
}

func TestSessionErrorDoesNotPoisonState(t *testing.T) {
	var buf bytes.Buffer
	session := NewSession(WithOutput(&buf))

	_, err := session.Feed("let x = 10;")
	require.NoError(t, err)

	// A failing fragment leaves previously defined state intact
	_, err = session.Feed("print(undefined_name);")
	require.Error(t, err)

	_, err = session.Feed("print(x);")
	require.NoError(t, err)
	require.Equal(t, "10\n", buf.String())
}

func TestSessionPrinted(t *testing.T) {
	session := NewSession(WithOutput(&bytes.Buffer{}))
	_, err := session.Feed("print(1); print(2);")
	require.NoError(t, err)
	require.Len(t, session.Printed(), 2)
}
