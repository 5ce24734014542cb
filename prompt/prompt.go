// Package prompt reads operator input line by line and prints values
// framed for manual copying.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type line struct {
	text string
	err  error
}

// Terminal prompts on w and reads answers from r. Reads happen on a
// background goroutine so a pending prompt can be abandoned when its
// context is cancelled.
type Terminal struct {
	w io.Writer
	r *bufio.Reader

	once  sync.Once
	lines chan line
}

// NewTerminal returns a Terminal reading r and writing w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{w: w, r: bufio.NewReader(r)}
}

func (t *Terminal) start() {
	t.lines = make(chan line)
	go func() {
		defer close(t.lines)
		for {
			s, err := t.r.ReadString('\n')
			if err != nil {
				// a final line without newline still counts
				if s != "" && err == io.EOF {
					t.lines <- line{text: s}
				}
				t.lines <- line{err: err}
				return
			}
			t.lines <- line{text: s}
		}
	}()
}

// Input prints label and returns the next line, trimmed of surrounding
// whitespace. The value is otherwise returned as typed.
func (t *Terminal) Input(ctx context.Context, label string) (string, error) {
	t.once.Do(t.start)

	if _, err := fmt.Fprintf(t.w, "%s: ", label); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", errors.Wrapf(l.err, "reading %s", label)
		}
		return strings.TrimSpace(l.text), nil
	}
}

// Display prints value between rules under a heading so the operator can
// copy it whole.
func (t *Terminal) Display(label, value string) error {
	rule := strings.Repeat("=", 20)
	_, err := fmt.Fprintf(t.w, "\n%s\n%s\n%s\n%s\n\n", label, rule, value, rule)
	return err
}
