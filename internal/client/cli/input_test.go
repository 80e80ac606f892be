package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  ana@example.com  \n"))

	got, err := GetSimpleText(reader, "Enter your email", &out)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got)
	assert.Equal(t, "Enter your email\n> ", out.String())
}

func TestGetSimpleTextPartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("no trailing newline"))

	got, err := GetSimpleText(reader, "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "no trailing newline", got)
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(reader, "Prompt", &out)
	require.Error(t, err)
}

func TestGetSecret(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("  tok-123  "), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	got, err := GetSecret("Magic link token", &out)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)
	assert.Contains(t, out.String(), "Magic link token: ")
}
