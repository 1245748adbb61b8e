package receiver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/session"
)

func TestAutoTransportTable(t *testing.T) {
	assert.Equal(t, session.TransportTCP, AutoTransport(format.Res240p))
	assert.Equal(t, session.TransportUDP, AutoTransport(format.Res360p))
	assert.Equal(t, session.TransportUDP, AutoTransport(format.Res480p))
	assert.Equal(t, session.TransportRTP, AutoTransport(format.Res720p))
	assert.Equal(t, session.TransportRTP, AutoTransport(format.Res1080p))
}

func TestParseEndpointUDPWithLocalPort(t *testing.T) {
	ep, err := ParseEndpoint("udp://127.0.0.1:8082?localport=54321")
	require.NoError(t, err)
	assert.Equal(t, session.TransportUDP, ep.Transport)
	assert.Equal(t, "127.0.0.1", ep.Host)
	assert.Equal(t, 8082, ep.Port)
	assert.Equal(t, 54321, ep.LocalPort)
}

func TestParseEndpointTCPHasNoLocalPort(t *testing.T) {
	ep, err := ParseEndpoint("tcp://127.0.0.1:8081")
	require.NoError(t, err)
	assert.Equal(t, session.TransportTCP, ep.Transport)
	assert.Equal(t, 0, ep.LocalPort)
}

func TestPlayerCommandRTPIncludesProtocolWhitelist(t *testing.T) {
	cmd := PlayerCommand(context.Background(), "ffplay", session.TransportRTP, "127.0.0.1", 8083, 54321)
	assert.Contains(t, cmd.Args, "-protocol_whitelist")
	assert.Contains(t, cmd.Args, "file,rtp,udp")
	assert.Contains(t, cmd.Args, "rtp://127.0.0.1:8083?localport=54321")
}
