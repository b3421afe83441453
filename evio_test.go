package evio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evio "github.com/JeffersonLab/evio-sub004"
)

func TestNewBufferWriterRoundTrip(t *testing.T) {
	w, err := evio.NewBufferWriter()
	require.NoError(t, err)
	require.NoError(t, w.Open(""))

	event := []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0x01, 0x02, 0x00}
	require.NoError(t, w.Write(event))
	require.NoError(t, w.Close())

	r, err := evio.NewReader(w.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 1, r.EventCount())

	got, err := r.Event(0)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := evio.Open("/nonexistent/path/does-not-exist.evio")
	assert.Error(t, err)
}
