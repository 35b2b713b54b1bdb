package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer)}
}

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func recv(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case frame := <-ch:
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestHubFansOutToAllClients(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	a := newTestClient(hub, 4)
	b := newTestClient(hub, 4)
	hub.register <- a
	hub.register <- b

	hub.Broadcast([]byte("frame-1"))

	assert.Equal(t, []byte("frame-1"), recv(t, a.send))
	assert.Equal(t, []byte("frame-1"), recv(t, b.send))
}

func TestHubDropsFramesForSlowClient(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	slow := newTestClient(hub, 1)
	fast := newTestClient(hub, 16)
	hub.register <- slow
	hub.register <- fast

	for i := 0; i < 5; i++ {
		hub.Broadcast([]byte{byte(i)})
	}

	// The fast client sees every frame; the slow one only what fit.
	for i := 0; i < 5; i++ {
		assert.Equal(t, []byte{byte(i)}, recv(t, fast.send))
	}
	assert.Equal(t, []byte{0}, recv(t, slow.send))
	assert.LessOrEqual(t, len(slow.send), 1)
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	client := newTestClient(hub, 4)
	hub.register <- client
	hub.unregister <- client

	select {
	case _, open := <-client.send:
		assert.False(t, open, "send channel must be closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// A frame after unregister must not reach the departed client.
	hub.Broadcast([]byte("late"))
}

func TestHubShutdownClosesAllClients(t *testing.T) {
	hub, cancel := runHub(t)

	client := newTestClient(hub, 4)
	hub.register <- client
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-client.send:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("send channel was not closed on shutdown")
		}
	}
}

func TestAddAfterShutdownDoesNotBlock(t *testing.T) {
	hub, cancel := runHub(t)
	require.True(t, hub.add(newTestClient(hub, 4)))
	cancel()
	<-hub.done

	result := make(chan bool, 1)
	go func() { result <- hub.add(newTestClient(hub, 4)) }()
	select {
	case ok := <-result:
		assert.False(t, ok, "a stopped hub must refuse new clients")
	case <-time.After(time.Second):
		t.Fatal("add blocked on a stopped hub")
	}
}

func TestRemoveAfterShutdownDoesNotBlock(t *testing.T) {
	hub, cancel := runHub(t)
	client := newTestClient(hub, 4)
	require.True(t, hub.add(client))
	cancel()
	<-hub.done

	done := make(chan struct{})
	go func() {
		hub.remove(client)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("remove blocked on a stopped hub")
	}
}

func TestBroadcastNeverBlocksProducer(t *testing.T) {
	// Hub not running: the queue fills and further frames are dropped.
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Broadcast([]byte{0})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with a full queue")
	}
	require.LessOrEqual(t, len(hub.broadcast), cap(hub.broadcast))
}
