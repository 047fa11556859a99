package progrock

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/vito/progrock"
)

const (
	statusRunning   = "running"
	statusCompleted = "done"
	statusFailed    = "failed"
)

// VertexState is the last known state of a recorded vertex.
type VertexState struct {
	ID     string
	Name   string
	Status string
	Error  string
	Lines  int
}

// Summary is a progrock.Writer that tracks vertex states and prints a
// table of them when closed.
type Summary struct {
	out io.Writer

	mu       sync.Mutex
	vertices []VertexState
	closed   bool
}

// NewSummary creates a Summary printing to out. A nil out prints nothing.
func NewSummary(out io.Writer) *Summary {
	return &Summary{out: out}
}

// WriteStatus applies a status update.
func (s *Summary) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range update.Vertexes {
		s.updateOrAddVertex(v)
	}
	for _, l := range update.Logs {
		if i := s.indexOf(l.Vertex); i >= 0 {
			s.vertices[i].Lines += strings.Count(string(l.Data), "\n")
		}
	}
	return nil
}

// Vertices returns a copy of the tracked states in first-seen order.
func (s *Summary) Vertices() []VertexState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VertexState, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// Close prints the summary once.
func (s *Summary) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.out == nil || len(s.vertices) == 0 {
		s.closed = true
		return nil
	}
	s.closed = true

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, v := range s.vertices {
		line := v.Name + "\t" + v.Status
		if v.Error != "" {
			line += "\t" + v.Error
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (s *Summary) indexOf(id string) int {
	for i, v := range s.vertices {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (s *Summary) updateOrAddVertex(v *progrock.Vertex) {
	i := s.indexOf(v.Id)
	if i < 0 {
		s.vertices = append(s.vertices, VertexState{
			ID:     v.Id,
			Name:   v.Name,
			Status: statusRunning,
		})
		i = len(s.vertices) - 1
	}

	if v.Completed != nil {
		if v.Error != nil {
			s.vertices[i].Status = statusFailed
			s.vertices[i].Error = *v.Error
		} else {
			s.vertices[i].Status = statusCompleted
		}
	}
}
