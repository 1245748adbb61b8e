package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRTPPacketizerHeaderFields(t *testing.T) {
	p := newRTPPacketizer(0xCAFEBABE)
	pkt := p.next([]byte("hello"))
	require.Len(t, pkt, rtpHeaderBytes+5)

	assert.Equal(t, byte(0x80), pkt[0]) // version=2, no padding/extension/CSRC
	assert.Equal(t, byte(96), pkt[1])   // PT=96, marker=0

	seq := uint16(pkt[2])<<8 | uint16(pkt[3])
	assert.Equal(t, uint16(0), seq)

	ssrc := uint32(pkt[8])<<24 | uint32(pkt[9])<<16 | uint32(pkt[10])<<8 | uint32(pkt[11])
	assert.Equal(t, uint32(0xCAFEBABE), ssrc)
}

func TestRTPPacketizerSequenceAndTimestampAdvance(t *testing.T) {
	p := newRTPPacketizer(1)
	first := p.next([]byte("a"))
	second := p.next([]byte("b"))

	seq1 := uint16(first[2])<<8 | uint16(first[3])
	seq2 := uint16(second[2])<<8 | uint16(second[3])
	assert.Equal(t, seq1+1, seq2)

	ts1 := uint32(first[4])<<24 | uint32(first[5])<<16 | uint32(first[6])<<8 | uint32(first[7])
	ts2 := uint32(second[4])<<24 | uint32(second[5])<<16 | uint32(second[6])<<8 | uint32(second[7])
	assert.Equal(t, ts1+rtpTimestampStep, ts2)
}

func TestRTPPacketizerSequenceWrapsModulo65536(t *testing.T) {
	p := newRTPPacketizer(1)
	p.seq = 65535
	pkt := p.next([]byte("x"))
	seq := uint16(pkt[2])<<8 | uint16(pkt[3])
	assert.Equal(t, uint16(65535), seq)

	pkt2 := p.next([]byte("y"))
	seq2 := uint16(pkt2[2])<<8 | uint16(pkt2[3])
	assert.Equal(t, uint16(0), seq2)
}
