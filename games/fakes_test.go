/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"context"
	"io"
	"slices"
	"sync"
)

// fakeChannel replays scripted agent lines in order and records everything
// the referee sends. A read with nothing queued waits for push or for ctx.
type fakeChannel struct {
	mu    sync.Mutex
	sent  []string
	lines chan string
}

func newFakeChannel(replies ...string) *fakeChannel {
	f := &fakeChannel{lines: make(chan string, 64)}
	f.push(replies...)
	return f
}

func (f *fakeChannel) push(lines ...string) {
	for _, l := range lines {
		f.lines <- l
	}
}

// hangUp makes reads past the queued lines fail as if the agent exited.
func (f *fakeChannel) hangUp() {
	close(f.lines)
}

func (f *fakeChannel) SendLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, line)

	return nil
}

func (f *fakeChannel) ReadLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-f.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *fakeChannel) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.sent)
}

// table holds the four fake agents of a game.
type table struct {
	clueGivers [2]*fakeChannel
	guessers   [2]*fakeChannel
}

func newTable() *table {
	return &table{
		clueGivers: [2]*fakeChannel{newFakeChannel(), newFakeChannel()},
		guessers:   [2]*fakeChannel{newFakeChannel(), newFakeChannel()},
	}
}

func (tb *table) players() [2]Players {
	var p [2]Players
	for _, team := range []Team{First, Second} {
		p[team] = Players{
			ClueGiver: NewClueGiver(team, tb.clueGivers[team]),
			Guesser:   NewGuesser(team, tb.guessers[team]),
		}
	}
	return p
}

// setupLines is how many lines each role receives before the first turn.
const (
	clueGiverSetupLines = 4
	guesserSetupLines   = 1
)

func afterSetup(lines []string, n int) []string {
	if len(lines) < n {
		return nil
	}
	return lines[n:]
}

// stallingChannel holds its first send until ctx is done and then lets it
// through, like a write that completes just after a deadline.
type stallingChannel struct {
	*fakeChannel
	stalled bool
}

func (s *stallingChannel) SendLine(ctx context.Context, line string) error {
	if !s.stalled {
		s.stalled = true
		<-ctx.Done()
		return s.fakeChannel.SendLine(context.WithoutCancel(ctx), line)
	}
	return s.fakeChannel.SendLine(ctx, line)
}
