package hub

import (
	"context"
	"testing"
	"time"
)

func TestHubRegisterAndBroadcast(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := NewClient(h, nil, "test-client")
	h.Register(c)

	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(map[string]string{"teamAName": "Lions"})

	select {
	case msg := <-c.Send:
		if string(msg) != `{"teamAName":"Lions"}` {
			t.Errorf("message = %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	// The hub closes the send channel on unregister.
	if _, ok := <-c.Send; ok {
		t.Error("send channel should be closed after unregister")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := NewClient(h, nil, "test-client")
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
