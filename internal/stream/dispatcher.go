package stream

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/session"
)

const (
	tcpChunkBytes = 16 * 1024
	udpChunkBytes = 16 * 1024
	udpPacing     = 50 * time.Millisecond
	rtpPacing     = 40 * time.Millisecond
)

// Dispatcher binds the three process-wide streaming sockets (spec.md §5:
// "three transport ports process-wide singletons bound at startup") and
// launches one sender goroutine per accepted stream request, satisfying
// control.StreamStarter.
type Dispatcher struct {
	tcpListener net.Listener
	udpConn     *net.UDPConn
	rtpConn     *net.UDPConn
	host        string
	logger      hclog.Logger
}

// NewDispatcher binds the TCP, UDP, and RTP ports. All three are bound
// eagerly at startup; a bind failure here is the one fatal startup error
// spec.md §6 calls out besides a missing transcoder.
func NewDispatcher(host string, tcpPort, udpPort, rtpPort int, logger hclog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	tcpLn, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, tcpPort))
	if err != nil {
		return nil, fmt.Errorf("bind tcp stream port: %w", err)
	}
	udpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP(host), Port: udpPort})
	if err != nil {
		tcpLn.Close()
		return nil, fmt.Errorf("bind udp stream port: %w", err)
	}
	rtpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP(host), Port: rtpPort})
	if err != nil {
		tcpLn.Close()
		udpConn.Close()
		return nil, fmt.Errorf("bind rtp stream port: %w", err)
	}

	return &Dispatcher{
		tcpListener: tcpLn,
		udpConn:     udpConn,
		rtpConn:     rtpConn,
		host:        host,
		logger:      logger.Named("stream-dispatcher"),
	}, nil
}

// Close releases all three bound sockets.
func (d *Dispatcher) Close() {
	d.tcpListener.Close()
	d.udpConn.Close()
	d.rtpConn.Close()
}

// TCPAddr, UDPAddr, RTPAddr expose the bound local addresses, used by
// main to log the process-wide endpoints at startup.
func (d *Dispatcher) TCPAddr() net.Addr { return d.tcpListener.Addr() }
func (d *Dispatcher) UDPAddr() net.Addr { return d.udpConn.LocalAddr() }
func (d *Dispatcher) RTPAddr() net.Addr { return d.rtpConn.LocalAddr() }

// Start begins delivering entry to sess over transport. It installs a new
// session.StreamHandle (aborting any previous active one per spec.md §3),
// spawns the sender goroutine, and returns the endpoint the receiver
// should dial.
func (d *Dispatcher) Start(sess *session.Session, entry catalog.Entry, transport session.Transport) (string, error) {
	handle := session.NewStreamHandle(sess.ClientID, entry, transport)
	ctx, cancel := context.WithCancel(context.Background())

	switch transport {
	case session.TransportTCP:
		addr := d.tcpListener.Addr().(*net.TCPAddr)
		sess.Adopt(handle, cancel)
		go d.sendTCP(ctx, handle)
		return fmt.Sprintf("tcp://%s:%d", d.host, addr.Port), nil

	case session.TransportUDP:
		peerPort, err := freeUDPPort()
		if err != nil {
			cancel()
			return "", err
		}
		addr := d.udpConn.LocalAddr().(*net.UDPAddr)
		sess.Adopt(handle, cancel)
		go d.sendUDP(ctx, handle, peerPort)
		return fmt.Sprintf("udp://%s:%d?localport=%d", d.host, addr.Port, peerPort), nil

	case session.TransportRTP:
		peerPort, err := freeUDPPort()
		if err != nil {
			cancel()
			return "", err
		}
		addr := d.rtpConn.LocalAddr().(*net.UDPAddr)
		sess.Adopt(handle, cancel)
		go d.sendRTP(ctx, handle, peerPort)
		return fmt.Sprintf("rtp://%s:%d?localport=%d", d.host, addr.Port, peerPort), nil

	default:
		cancel()
		return "", fmt.Errorf("unsupported transport %q", transport)
	}
}

// freeUDPPort asks the kernel for an ephemeral port, then releases it for
// the receiver's external pipeline to bind (spec.md §4.I: "a local port
// (random high port) for unreliable modes").
func freeUDPPort() (int, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).Port, nil
}

func (d *Dispatcher) sendTCP(ctx context.Context, handle *session.StreamHandle) {
	conn, err := d.tcpListener.Accept()
	if err != nil {
		handle.Abort()
		return
	}
	defer conn.Close()
	handle.Activate()

	f, err := os.Open(handle.Entry.AbsolutePath)
	if err != nil {
		handle.Abort()
		return
	}
	defer f.Close()

	buf := make([]byte, tcpChunkBytes)
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			handle.Abort()
			return
		default:
		}

		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				handle.Abort()
				return
			}
			handle.UpdateCounters(func(c *session.Counters) {
				c.BytesSent += int64(n)
				c.PacketsSent++
				c.WallTime = time.Since(start)
				if c.WallTime > 0 {
					c.BitRateBps = float64(c.BytesSent*8) / c.WallTime.Seconds()
				}
			})
		}
		if rerr == io.EOF {
			handle.Finish()
			return
		}
		if rerr != nil {
			handle.Abort()
			return
		}
	}
}

func (d *Dispatcher) sendUDP(ctx context.Context, handle *session.StreamHandle, peerPort int) {
	dest := &net.UDPAddr{IP: net.ParseIP(d.host), Port: peerPort}
	f, err := os.Open(handle.Entry.AbsolutePath)
	if err != nil {
		handle.Abort()
		return
	}
	defer f.Close()
	handle.Activate()

	buf := make([]byte, udpChunkBytes)
	start := time.Now()
	ticker := time.NewTicker(udpPacing)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			handle.Abort()
			return
		case <-ticker.C:
		}

		n, rerr := f.Read(buf)
		if n > 0 {
			// Datagram loss is accepted per spec.md §4.H; a write error here
			// still aborts the stream since it indicates the local socket
			// itself is unusable, not a network-level drop.
			if _, werr := d.udpConn.WriteToUDP(buf[:n], dest); werr != nil {
				handle.Abort()
				return
			}
			handle.UpdateCounters(func(c *session.Counters) {
				c.BytesSent += int64(n)
				c.PacketsSent++
				c.WallTime = time.Since(start)
				if c.WallTime > 0 {
					c.BitRateBps = float64(c.BytesSent*8) / c.WallTime.Seconds()
				}
			})
		}
		if rerr == io.EOF {
			handle.Finish()
			return
		}
		if rerr != nil {
			handle.Abort()
			return
		}
	}
}

func (d *Dispatcher) sendRTP(ctx context.Context, handle *session.StreamHandle, peerPort int) {
	dest := &net.UDPAddr{IP: net.ParseIP(d.host), Port: peerPort}
	f, err := os.Open(handle.Entry.AbsolutePath)
	if err != nil {
		handle.Abort()
		return
	}
	defer f.Close()
	handle.Activate()

	packetizer := newRTPPacketizer(fixedSSRC)
	buf := make([]byte, rtpMaxPayload)
	start := time.Now()
	ticker := time.NewTicker(rtpPacing)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			handle.Abort()
			return
		case <-ticker.C:
		}

		n, rerr := f.Read(buf)
		if n > 0 {
			pkt := packetizer.next(buf[:n])
			if _, werr := d.rtpConn.WriteToUDP(pkt, dest); werr != nil {
				handle.Abort()
				return
			}
			handle.UpdateCounters(func(c *session.Counters) {
				c.BytesSent += int64(len(pkt))
				c.PacketsSent++
				c.WallTime = time.Since(start)
				if c.WallTime > 0 {
					c.BitRateBps = float64(c.BytesSent*8) / c.WallTime.Seconds()
				}
			})
		}
		if rerr == io.EOF {
			handle.Finish()
			return
		}
		if rerr != nil {
			handle.Abort()
			return
		}
	}
}

// fixedSSRC is the synchronization source id used for every RTP stream
// this process sends, per spec.md §4.H's "fixed SSRC".
const fixedSSRC = 0x53545250 // "STRP"
