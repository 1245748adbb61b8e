// Package control implements the control-channel wire protocol from
// spec.md §4.G/§6: a length-prefixed JSON message channel, symmetric
// client<->server, carrying CONNECT/LIST_CONTAINERS/LIST_VIDEOS/
// START_STREAM/DISCONNECT requests and their replies. There is no
// corpus example of a bespoke binary framing layer (the pack's wire code
// is all HTTP/websocket); framing.go is accordingly one of the few parts
// of this module built directly on the standard library rather than a
// third-party dependency, and is justified in DESIGN.md.
package control

import (
	"encoding/json"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
)

// Kind tags a message's payload shape, replacing the runtime-type dispatch
// spec.md §9 calls out as a redesign target with a closed enumeration.
type Kind string

const (
	KindConnect        Kind = "CONNECT"
	KindConnected      Kind = "CONNECTED"
	KindListContainers Kind = "LIST_CONTAINERS"
	KindContainers     Kind = "CONTAINERS"
	KindListVideos     Kind = "LIST_VIDEOS"
	KindVideos         Kind = "VIDEOS"
	KindStartStream    Kind = "START_STREAM"
	KindStreamReady    Kind = "STREAM_READY"
	KindNotFound       Kind = "NOT_FOUND"
	KindBusy           Kind = "BUSY"
	KindDisconnect     Kind = "DISCONNECT"
	KindOK             Kind = "OK"
	KindBadRequest     Kind = "BAD_REQUEST"
)

// VideoEntry is the wire representation of catalog.Entry (spec.md §6): it
// adds a display-only url and omits the server's local absolute_path.
type VideoEntry struct {
	Title      string `json:"title"`
	Resolution string `json:"resolution"`
	Container  string `json:"container"`
	URL        string `json:"url"`
}

// FromCatalogEntry converts a catalog.Entry plus a display URL into its
// wire form.
func FromCatalogEntry(e catalog.Entry, url string) VideoEntry {
	return VideoEntry{
		Title:      e.Title,
		Resolution: string(e.Resolution),
		Container:  string(e.Container),
		URL:        url,
	}
}

// Message is the envelope framed onto the wire: Kind selects how Payload
// should be interpreted by the receiving side.
type Message struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ConnectPayload is CONNECT's request body.
type ConnectPayload struct {
	Hostname string `json:"hostname"`
	Ts       int64  `json:"ts"`
}

// ConnectedPayload is CONNECTED's reply body.
type ConnectedPayload struct {
	ClientID string `json:"client_id"`
}

// ListVideosPayload is LIST_VIDEOS's request body.
type ListVideosPayload struct {
	Container     string  `json:"container"`
	BandwidthMbps float64 `json:"bandwidth_mbps"`
}

// StartStreamPayload is START_STREAM's request body.
type StartStreamPayload struct {
	Title      string `json:"title"`
	Resolution string `json:"resolution"`
	Container  string `json:"container"`
	Transport  string `json:"transport,omitempty"`
}

// StreamReadyPayload is STREAM_READY's reply body.
type StreamReadyPayload struct {
	Endpoint string `json:"endpoint"`
}

// DisconnectPayload is DISCONNECT's request body.
type DisconnectPayload struct {
	ClientID string `json:"client_id"`
}
