// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// console reads lines of user input, allowing callers to give up waiting for
// input without losing the next line to a dangling reader.
type console struct {
	lines <-chan string
	out   io.Writer
}

func newConsole(in io.Reader, out io.Writer) *console {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return &console{lines: lines, out: out}
}

// ReadLine returns the next line of input with surrounding whitespace
// removed. It returns false when the input has been exhausted or the context
// is done.
func (c *console) ReadLine(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-c.lines:
		return strings.TrimSpace(line), ok
	case <-ctx.Done():
		return "", false
	}
}

// Ask prints the prompt and returns the answer.
func (c *console) Ask(ctx context.Context, prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	return c.ReadLine(ctx)
}

// Printf prints to the console output.
func (c *console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
