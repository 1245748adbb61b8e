// Package receiver implements the client-side orchestration from spec.md
// §4.I: resolving an automatic transport when the user hasn't chosen one,
// and spawning the external media pipeline that actually decodes the wire
// traffic, grounded on the teacher's child-process spawn pattern in
// sdk/transcoding (os/exec with explicit argument slices rather than a
// shell string).
package receiver

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"os/exec"
	"strconv"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/session"
)

// rtpWhitelist is the ffplay/ffmpeg -protocol_whitelist value required to
// accept an rtp:// input URL (spec.md §6).
const rtpWhitelist = "file,rtp,udp"

// AutoTransport mirrors the server's default transport selection so the
// client can pick the same value when START_STREAM omits one explicitly:
// 240p -> reliable, 360p/480p -> datagram, 720p/1080p -> RTP.
func AutoTransport(res format.Resolution) session.Transport {
	switch res {
	case format.Res240p:
		return session.TransportTCP
	case format.Res360p, format.Res480p:
		return session.TransportUDP
	default:
		return session.TransportRTP
	}
}

// RandomLocalPort picks a random high local port for the unreliable
// transports' local endpoint (spec.md §4.I: "a local port (random high
// port) for unreliable modes").
func RandomLocalPort() int {
	return 20000 + rand.Intn(20000)
}

// PlayerCommand builds the external player invocation for a STREAM_READY
// endpoint. player is the player binary path (e.g. "ffplay"); transport
// and localPort are only meaningful for udp/rtp.
func PlayerCommand(ctx context.Context, player string, transport session.Transport, host string, port int, localPort int) *exec.Cmd {
	var args []string
	switch transport {
	case session.TransportTCP:
		args = []string{"-i", fmt.Sprintf("tcp://%s:%d", host, port)}
	case session.TransportUDP:
		args = []string{"-i", fmt.Sprintf("udp://%s:%d?localport=%d", host, port, localPort)}
	case session.TransportRTP:
		args = []string{
			"-protocol_whitelist", rtpWhitelist,
			"-i", fmt.Sprintf("rtp://%s:%d?localport=%d", host, port, localPort),
		}
	}
	return exec.CommandContext(ctx, player, args...)
}

// Endpoint is a parsed STREAM_READY endpoint (spec.md §6): scheme selects
// the transport, host/port is the server's bound socket, and localPort (if
// present) is the receiver's own ephemeral port for unreliable modes.
type Endpoint struct {
	Transport session.Transport
	Host      string
	Port      int
	LocalPort int
}

// ParseEndpoint parses a STREAM_READY endpoint URL of the form
// "tcp://host:port", "udp://host:port?localport=P", or
// "rtp://host:port?localport=P".
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint: %w", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint port: %w", err)
	}
	ep := Endpoint{
		Transport: session.Transport(u.Scheme),
		Host:      u.Hostname(),
		Port:      port,
	}
	if lp := u.Query().Get("localport"); lp != "" {
		if ep.LocalPort, err = strconv.Atoi(lp); err != nil {
			return Endpoint{}, fmt.Errorf("parse endpoint localport: %w", err)
		}
	}
	return ep, nil
}
