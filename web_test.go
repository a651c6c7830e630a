/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/codenames/games"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, cfg *Config) (*httptest.Server, *Hub) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := newHub()
	go hub.run(ctx, cfg)

	errs := make(chan error, 8)
	srv := httptest.NewServer(newRouter(cfg, hub, errs))
	t.Cleanup(srv.Close)

	return srv, hub
}

func TestStaticRoutes(t *testing.T) {
	srv, _ := newTestServer(t, &Config{})

	tests := []struct {
		path        string
		contentType string
		body        string
	}{
		{"/", "text/html; charset=utf-8", "<"},
		{"/app.js", "application/javascript; charset=utf-8", ""},
		{"/healthz", "text/plain; charset=utf-8", "Ok\n"},
		{"/robots.txt", "text/plain; charset=utf-8", "Disallow: /"},
		{"/version", "text/plain; charset=utf-8", "codenames v" + releaseVersion},
		{"/qr", "image/png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Fatalf("content type %q, want %q", got, tt.contentType)
			}

			var body strings.Builder
			if _, err := body.ReadFrom(resp.Body); err != nil {
				t.Fatalf("read body: %v", err)
			}
			if !strings.Contains(body.String(), tt.body) {
				t.Fatalf("body %q does not contain %q", body.String(), tt.body)
			}
		})
	}
}

func TestPrefixedRoutes(t *testing.T) {
	srv, _ := newTestServer(t, &Config{prefix: "/codenames"})

	resp, err := http.Get(srv.URL + "/codenames/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unprefixed route answered with %d", resp.StatusCode)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type spectatorMessage struct {
	Type   string        `json:"type"`
	Events []games.Event `json:"events"`
	Event  games.Event   `json:"event"`
}

func TestSpectatorsGetHistoryThenLiveEvents(t *testing.T) {
	srv, hub := newTestServer(t, &Config{})

	hub.Observe(games.Event{Kind: games.EventGameStarted, Game: "old"})
	hub.Observe(games.Event{Kind: games.EventClue, Game: "old"})
	hub.Observe(games.Event{Kind: games.EventGameStarted, Game: "g1"})
	hub.Observe(games.Event{Kind: games.EventClue, Game: "g1", Clue: "fruit", Count: 2})
	waitFor(t, func() bool { return hub.historyLen() == 2 })

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg spectatorMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read history: %v", err)
	}
	if msg.Type != "history" || len(msg.Events) != 2 {
		t.Fatalf("history %+v", msg)
	}
	if msg.Events[0].Game != "g1" || msg.Events[1].Clue != "fruit" {
		t.Fatalf("history holds events from the wrong game: %+v", msg.Events)
	}

	hub.Observe(games.Event{Kind: games.EventGuess, Game: "g1", Guess: "apple", Verdict: games.Correct})

	msg = spectatorMessage{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if msg.Type != "event" || msg.Event.Guess != "apple" || msg.Event.Verdict != games.Correct {
		t.Fatalf("event %+v", msg)
	}
}

func TestObserveAfterHubStops(t *testing.T) {
	hub := newHub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.run(ctx, &Config{})
		close(done)
	}()

	cancel()
	<-done

	finished := make(chan struct{})
	go func() {
		for range 100 {
			hub.Observe(games.Event{Kind: games.EventClue})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Observe blocked after the hub stopped")
	}
}
