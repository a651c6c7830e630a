/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Channel is a line-oriented link to one agent. ReadLine blocks until a
// line arrives, the agent goes away, or ctx is done; a line that arrives
// after ctx is done is kept for the next ReadLine.
type Channel interface {
	SendLine(ctx context.Context, line string) error
	ReadLine(ctx context.Context) (string, error)
}

const maxLineLength = 1 << 20

// LineChannel speaks the line protocol over any reader/writer pair.
type LineChannel struct {
	w  io.Writer
	mu sync.Mutex

	lines chan string
	done  chan struct{}
	quit  chan struct{}
	once  sync.Once
	err   error
}

func NewLineChannel(r io.Reader, w io.Writer) *LineChannel {
	c := &LineChannel{
		w:     w,
		lines: make(chan string, 16),
		done:  make(chan struct{}),
		quit:  make(chan struct{}),
	}

	go c.readLoop(r)

	return c
}

func (c *LineChannel) readLoop(r io.Reader) {
	defer close(c.done)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	for scanner.Scan() {
		select {
		case c.lines <- strings.TrimRight(scanner.Text(), "\r"):
		case <-c.quit:
			c.err = io.ErrClosedPipe
			return
		}
	}

	c.err = scanner.Err()
	if c.err == nil {
		c.err = io.EOF
	}
}

func (c *LineChannel) SendLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.w, line+"\n")

	return err
}

func (c *LineChannel) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-c.lines:
		return line, nil
	default:
	}

	select {
	case line := <-c.lines:
		return line, nil
	case <-c.done:
		// lines sent before the reader stopped are still buffered
		select {
		case line := <-c.lines:
			return line, nil
		default:
		}
		return "", c.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops the reader and closes the writer if it can be closed.
func (c *LineChannel) Close() error {
	c.once.Do(func() { close(c.quit) })

	if closer, ok := c.w.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// ProcessChannel is a LineChannel bound to a spawned agent process.
type ProcessChannel struct {
	*LineChannel

	cmd   *exec.Cmd
	grace time.Duration
}

// StartProcess runs command through /bin/sh and wires its stdin and stdout
// to a LineChannel. The agent's stderr goes to stderr.
func StartProcess(command string, stderr io.Writer) (*ProcessChannel, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("empty agent command")
	}

	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("agent stdin: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("agent stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start agent %q: %w", command, err)
	}

	return &ProcessChannel{
		LineChannel: NewLineChannel(stdout, stdin),
		cmd:         cmd,
		grace:       2 * time.Second,
	}, nil
}

// Close closes the agent's stdin and waits briefly for it to exit before
// killing it.
func (p *ProcessChannel) Close() error {
	_ = p.LineChannel.Close()

	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	// stdout must be drained before Wait closes it
	select {
	case <-p.done:
	case <-timer.C:
		return p.kill()
	}

	exited := make(chan error, 1)
	go func() {
		exited <- p.cmd.Wait()
	}()

	select {
	case err := <-exited:
		return err
	case <-timer.C:
		_ = p.cmd.Process.Kill()
		<-exited
		<-p.done
		return p.killed()
	}
}

func (p *ProcessChannel) kill() error {
	_ = p.cmd.Process.Kill()
	_ = p.cmd.Wait()
	<-p.done
	return p.killed()
}

func (p *ProcessChannel) killed() error {
	return fmt.Errorf("agent pid %d killed after %s", p.cmd.Process.Pid, p.grace)
}
