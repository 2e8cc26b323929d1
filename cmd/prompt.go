package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// errQuit is returned by the line prompts when the user types q or the
// input ends.
var errQuit = errors.New("quit")

// prompter reads answers from stdin one line at a time.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter() *prompter {
	return &prompter{in: bufio.NewScanner(os.Stdin), out: os.Stdout}
}

// line prints label and returns the trimmed reply.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	text := strings.TrimSpace(p.in.Text())
	if text == "q" || text == "quit" {
		return "", errQuit
	}
	return text, nil
}

// choice asks until the reply is a number in [1, n] and returns it
// zero-based. Letters a, b, c... are accepted as well.
func (p *prompter) choice(label string, n int) (int, error) {
	for {
		text, err := p.line(label)
		if err != nil {
			return 0, err
		}
		if i, ok := parseChoice(text, n); ok {
			return i, nil
		}
		fmt.Fprintf(p.out, "Enter 1-%d.\n", n)
	}
}

func parseChoice(text string, n int) (int, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) == 1 && text[0] >= 'a' && text[0] < 'a'+byte(n) {
		return int(text[0] - 'a'), true
	}
	i, err := strconv.Atoi(text)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

// parseOrder parses a permutation of 1..n such as "3 1 2" or "3,1,2".
func parseOrder(text string, n int) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(fields))
	}
	seen := make([]bool, n)
	order := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 1 || v > n {
			return nil, fmt.Errorf("%q is not between 1 and %d", f, n)
		}
		if seen[v-1] {
			return nil, fmt.Errorf("%d appears twice", v)
		}
		seen[v-1] = true
		order[i] = v - 1
	}
	return order, nil
}
