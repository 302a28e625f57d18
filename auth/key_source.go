package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mezonai/vewallet/errors"
)

// KeySource stands in for the login modal: it yields the private key of the
// user logging in.
type KeySource interface {
	Key(ctx context.Context) (string, error)
	// Interactive sources are never used to restore a session.
	Interactive() bool
}

type StaticKey string

func (k StaticKey) Key(context.Context) (string, error) {
	if strings.TrimSpace(string(k)) == "" {
		return "", errors.Wrap(errors.ErrKeyUnavailable, "no private key configured")
	}
	return strings.TrimSpace(string(k)), nil
}

func (k StaticKey) Interactive() bool { return false }

// FileKey reads a hex private key from a file.
type FileKey string

func (f FileKey) Key(context.Context) (string, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return "", errors.Wrapf(errors.ErrKeyUnavailable, "read key file %s: %v", string(f), err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", errors.Wrapf(errors.ErrKeyUnavailable, "key file %s is empty", string(f))
	}
	return key, nil
}

func (f FileKey) Interactive() bool { return false }

// PromptKey asks for the key on its output and reads one line from its
// input. An empty answer or end of input means the user cancelled.
type PromptKey struct {
	in  *bufio.Reader
	out io.Writer

	mu      sync.Mutex
	pending chan promptAnswer
}

type promptAnswer struct {
	line string
	err  error
}

func NewPromptKey(in io.Reader, out io.Writer) *PromptKey {
	return &PromptKey{in: bufio.NewReader(in), out: out}
}

// Key waits for one line. A read still outstanding when ctx is done is kept
// and answers the next call, so at most one reader goroutine exists.
func (p *PromptKey) Key(ctx context.Context) (string, error) {
	if p.out != nil {
		fmt.Fprint(p.out, "Private key (empty to cancel): ")
	}

	p.mu.Lock()
	if p.pending == nil {
		ch := make(chan promptAnswer, 1)
		p.pending = ch
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- promptAnswer{line, err}
		}()
	}
	ch := p.pending
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", errors.Wrap(errors.ErrUserCancelled, ctx.Err().Error())
	case a := <-ch:
		p.mu.Lock()
		p.pending = nil
		p.mu.Unlock()

		line := strings.TrimSpace(a.line)
		if line == "" {
			return "", errors.ErrUserCancelled
		}
		if a.err != nil && a.err != io.EOF {
			return "", errors.Wrap(a.err, "read private key")
		}
		return line, nil
	}
}

func (p *PromptKey) Interactive() bool { return true }
