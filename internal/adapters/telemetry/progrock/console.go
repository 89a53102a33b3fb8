package progrock

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Console)(nil)

// Console is a progrock.Writer that renders status updates as they arrive:
// a line when a vertex starts, prefixed log lines, and a status line when it completes.
type Console struct {
	output *termenv.Output

	mu       sync.Mutex
	names    map[string]string
	started  map[string]bool
	finished map[string]bool
	partial  map[logKey]*bytes.Buffer
}

type logKey struct {
	vertex string
	stream progrock.LogStream
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	profile := termenv.ANSI
	if os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}
	return &Console{
		output:   termenv.NewOutput(out, termenv.WithProfile(profile)),
		names:    make(map[string]string),
		started:  make(map[string]bool),
		finished: make(map[string]bool),
		partial:  make(map[logKey]*bytes.Buffer),
	}
}

// WriteStatus renders one status update.
func (c *Console) WriteStatus(update *progrock.StatusUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range update.Vertexes {
		c.names[v.Id] = v.Name
		if !c.started[v.Id] {
			c.started[v.Id] = true
			c.printf("%s %s\n", c.output.String("●").Foreground(termenv.ANSIBlue), v.Name)
		}
	}

	for _, l := range update.Logs {
		key := logKey{vertex: l.Vertex, stream: l.Stream}
		buf, ok := c.partial[key]
		if !ok {
			buf = new(bytes.Buffer)
			c.partial[key] = buf
		}
		buf.Write(l.Data)
		for {
			idx := bytes.IndexByte(buf.Bytes(), '\n')
			if idx < 0 {
				break
			}
			c.logLine(l.Vertex, buf.Next(idx+1))
		}
	}

	for _, v := range update.Vertexes {
		if v.Completed == nil || c.finished[v.Id] {
			continue
		}
		c.finished[v.Id] = true
		c.flushVertex(v.Id)
		switch {
		case v.Error != nil:
			c.printf("%s %s: %s\n", c.output.String("✗").Foreground(termenv.ANSIRed), v.Name, *v.Error)
		case v.Cached:
			c.printf("%s %s (cached)\n", c.output.String("~").Foreground(termenv.ANSIYellow), v.Name)
		default:
			c.printf("%s %s\n", c.output.String("✓").Foreground(termenv.ANSIGreen), v.Name)
		}
	}
	return nil
}

// Close flushes every partial log line.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.partial {
		c.flushVertex(key.vertex)
	}
	return nil
}

func (c *Console) flushVertex(id string) {
	for key, buf := range c.partial {
		if key.vertex != id {
			continue
		}
		if buf.Len() > 0 {
			c.logLine(id, buf.Bytes())
		}
		delete(c.partial, key)
	}
}

func (c *Console) logLine(id string, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	prefix := c.output.String("[" + c.names[id] + "]").Faint()
	c.printf("%s %s\n", prefix, line)
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.output, format, args...)
}
