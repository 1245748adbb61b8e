// Package stream implements the streaming dispatcher from spec.md §4.H:
// given a (file, transport) pair, launch the correct sender task — reliable
// byte stream, raw datagram, or RTP-framed datagram — each as one
// goroutine per active stream with cooperative cancellation through the
// owning session.StreamHandle, grounded on the teacher's one-goroutine-
// per-playback-session pattern
// (internal/modules/playbackmodule/core/process_registry.go) generalized
// from "one ffmpeg process" to "one socket sender".
package stream

import "encoding/binary"

const (
	rtpVersion       = 2
	rtpPayloadType   = 96
	rtpHeaderBytes   = 12
	rtpClockRate     = 90000
	rtpTimestampStep = 3600 // 90kHz / 25fps nominal, per spec.md §4.H
	rtpMaxPayload    = 1400
)

// rtpPacketizer builds RTP packets for one stream: fixed SSRC, monotonic
// sequence number modulo 2^16, timestamp advancing by a fixed step per
// packet (spec.md §4.H / §6).
type rtpPacketizer struct {
	ssrc uint32
	seq  uint16
	ts   uint32
}

func newRTPPacketizer(ssrc uint32) *rtpPacketizer {
	return &rtpPacketizer{ssrc: ssrc}
}

// next returns one RTP packet (12-byte header + payload) and advances the
// packetizer's sequence number and timestamp.
func (p *rtpPacketizer) next(payload []byte) []byte {
	pkt := make([]byte, rtpHeaderBytes+len(payload))

	// byte 0: V=2 (bits 7-6), P=0, X=0, CC=0
	pkt[0] = rtpVersion << 6
	// byte 1: M=0 (bit 7), PT=96 (bits 6-0)
	pkt[1] = rtpPayloadType & 0x7f

	binary.BigEndian.PutUint16(pkt[2:4], p.seq)
	binary.BigEndian.PutUint32(pkt[4:8], p.ts)
	binary.BigEndian.PutUint32(pkt[8:12], p.ssrc)
	copy(pkt[rtpHeaderBytes:], payload)

	p.seq++ // wraps modulo 2^16 via uint16 overflow
	p.ts += rtpTimestampStep

	return pkt
}
