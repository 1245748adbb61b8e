package session

import (
	"net"
	"testing"
	"time"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/streamerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(s string) net.Addr {
	a, _ := net.ResolveTCPAddr("tcp", s)
	return a
}

func TestConnectDisconnect(t *testing.T) {
	r := NewRegistry(nil, time.Hour)
	defer r.Close()

	s := r.Connect(addr("127.0.0.1:1234"))
	require.NotEmpty(t, s.ClientID)

	_, ok := r.Get(s.ClientID)
	assert.True(t, ok)

	require.NoError(t, r.Disconnect(s.ClientID, addr("127.0.0.1:1234")))
	_, ok = r.Get(s.ClientID)
	assert.False(t, ok)
}

func TestDisconnectPeerMismatch(t *testing.T) {
	r := NewRegistry(nil, time.Hour)
	defer r.Close()

	s := r.Connect(addr("127.0.0.1:1234"))
	err := r.Disconnect(s.ClientID, addr("127.0.0.1:9999"))
	require.Error(t, err)
	assert.ErrorIs(t, err, streamerr.ErrPeerMismatch)
}

func TestSecondNoteStreamAbortsFirst(t *testing.T) {
	r := NewRegistry(nil, time.Hour)
	defer r.Close()
	s := r.Connect(addr("127.0.0.1:1234"))

	e := catalog.Entry{Title: "Heat", Resolution: format.Res720p, Container: format.MKV}
	h1 := NewStreamHandle(s.ClientID, e, TransportTCP)
	h1.Activate()
	require.NoError(t, r.NoteStream(s.ClientID, h1, func() {}))

	h2 := NewStreamHandle(s.ClientID, e, TransportRTP)
	require.NoError(t, r.NoteStream(s.ClientID, h2, func() {}))

	assert.Equal(t, StreamAborted, h1.State())
	assert.Equal(t, s.CurrentStream(), h2)
}

func TestStaleSessionSwept(t *testing.T) {
	r := NewRegistry(nil, 20*time.Millisecond)
	defer r.Close()
	s := r.Connect(addr("127.0.0.1:1234"))

	time.Sleep(100 * time.Millisecond)
	_, ok := r.Get(s.ClientID)
	assert.False(t, ok)
}
