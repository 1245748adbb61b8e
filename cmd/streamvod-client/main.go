// Command streamvod-client demonstrates the control protocol round trip
// described in spec.md §9's linear-protocol design: connect, list videos
// filtered by container and bandwidth, start a stream, then
// spawn the external media pipeline appropriate for the resolved
// transport. Grounded on the teacher's cmd/viewra/main.go startup-banner
// style and os/exec child-process idiom.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/control"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/logger"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/receiver"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/session"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:8080", "control channel address")
	container := flag.String("container", "mkv", "preferred container")
	bandwidth := flag.Float64("bandwidth", 5.0, "measured downlink in mbps")
	title := flag.String("title", "", "title to stream (if empty, lists only)")
	transport := flag.String("transport", "", "tcp|udp|rtp, empty for automatic")
	player := flag.String("player", "ffplay", "external media pipeline binary")
	flag.Parse()

	logger.Info("streamvod client connecting to %s", *serverAddr)

	conn, err := net.DialTimeout("tcp", *serverAddr, 5*time.Second)
	if err != nil {
		logger.Fatal("connect to control channel: %v", err)
	}
	defer conn.Close()
	wire := control.NewConn(conn)

	if err := wire.WriteMessage(control.Encode(control.KindConnect, control.ConnectPayload{Hostname: hostname(), Ts: time.Now().Unix()})); err != nil {
		logger.Fatal("send CONNECT: %v", err)
	}
	reply, err := wire.ReadMessage()
	if err != nil {
		logger.Fatal("read CONNECTED: %v", err)
	}
	var connected control.ConnectedPayload
	if err := control.Decode(reply, &connected); err != nil {
		logger.Fatal("decode CONNECTED: %v", err)
	}
	fmt.Printf("connected as %s\n", connected.ClientID)

	if err := wire.WriteMessage(control.Encode(control.KindListVideos, control.ListVideosPayload{Container: *container, BandwidthMbps: *bandwidth})); err != nil {
		logger.Fatal("send LIST_VIDEOS: %v", err)
	}
	reply, err = wire.ReadMessage()
	if err != nil {
		logger.Fatal("read VIDEOS: %v", err)
	}
	var videos []control.VideoEntry
	if err := control.Decode(reply, &videos); err != nil {
		logger.Fatal("decode VIDEOS: %v", err)
	}
	for _, v := range videos {
		fmt.Printf("  %-40s %-6s %-4s\n", v.Title, v.Resolution, v.Container)
	}

	if *title == "" || len(videos) == 0 {
		return
	}

	chosen := videos[0]
	for _, v := range videos {
		if v.Title == *title {
			chosen = v
			break
		}
	}

	if err := wire.WriteMessage(control.Encode(control.KindStartStream, control.StartStreamPayload{
		Title:      chosen.Title,
		Resolution: chosen.Resolution,
		Container:  chosen.Container,
		Transport:  *transport,
	})); err != nil {
		logger.Fatal("send START_STREAM: %v", err)
	}
	reply, err = wire.ReadMessage()
	if err != nil {
		logger.Fatal("read START_STREAM reply: %v", err)
	}

	switch reply.Kind {
	case control.KindBusy:
		logger.Fatal("server reports a stream is already active for this session")
	case control.KindNotFound:
		logger.Fatal("requested title/resolution/container not found")
	case control.KindStreamReady:
		var ready control.StreamReadyPayload
		if err := control.Decode(reply, &ready); err != nil {
			logger.Fatal("decode STREAM_READY: %v", err)
		}
		spawnPlayer(ready.Endpoint, *player)
	default:
		logger.Fatal("unexpected reply kind %s", reply.Kind)
	}

	waitForInterrupt()
	wire.WriteMessage(control.Encode(control.KindDisconnect, control.DisconnectPayload{ClientID: connected.ClientID}))
}

func spawnPlayer(endpoint, player string) {
	ep, err := receiver.ParseEndpoint(endpoint)
	if err != nil {
		logger.Fatal("parse endpoint %q: %v", endpoint, err)
	}
	localPort := ep.LocalPort
	if ep.Transport != session.TransportTCP && localPort == 0 {
		localPort = receiver.RandomLocalPort()
	}
	cmd := receiver.PlayerCommand(context.Background(), player, ep.Transport, ep.Host, ep.Port, localPort)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		logger.Fatal("spawn player: %v", err)
	}
	fmt.Printf("spawned %s pid=%d for %s\n", player, cmd.Process.Pid, endpoint)
}

func waitForInterrupt() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
