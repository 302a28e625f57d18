package app

import (
	"fmt"
	"sync"

	"github.com/mezonai/vewallet/jsonx"
	"github.com/mezonai/vewallet/logx"
)

// Console holds the last message shown to the user.
type Console struct {
	mu   sync.RWMutex
	text string
	args []interface{}
}

func NewConsole() *Console {
	return &Console{}
}

// Print renders args as indented JSON, replacing the previous output.
func (c *Console) Print(args ...interface{}) {
	if args == nil {
		args = []interface{}{}
	}
	b, err := jsonx.MarshalIndent(args, "", "  ")
	text := string(b)
	if err != nil {
		text = fmt.Sprint(args...)
	}

	c.mu.Lock()
	c.text = text
	c.args = args
	c.mu.Unlock()

	logx.Info("CONSOLE", args...)
}

func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = ""
	c.args = nil
}

// Text is the rendered output.
func (c *Console) Text() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.text
}

// Last returns the first printed argument, or nil.
func (c *Console) Last() interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.args) == 0 {
		return nil
	}
	return c.args[0]
}
