// Package terminal manages the user facing input and output of the CLI: prompts, colours and
// cursor control on a TTY.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// terminal stores the file descriptor of the output and whether it is a tty.
type terminal struct {
	fd         uintptr
	isTerminal bool
}

// Out reads answers from in and writes prompts, tables and messages to out. Escape sequences
// are only written when out is a terminal.
type Out struct {
	terminal
	in  *bufio.Reader
	out io.Writer
}

func New() *Out {
	return NewWithIO(os.Stdin, os.Stdout)
}

func NewWithIO(in io.Reader, out io.Writer) *Out {
	o := &Out{in: bufio.NewReader(in), out: out}
	o.fd, o.isTerminal = getTerminalInfo(out)

	return o
}

func getTerminalInfo(w io.Writer) (fd uintptr, isTerminal bool) {
	if file, ok := w.(*os.File); ok {
		fd = file.Fd()
		isTerminal = term.IsTerminal(int(fd))
	}

	return fd, isTerminal
}

// IsTerminal reports whether the output is a tty.
func (o *Out) IsTerminal() bool {
	return o.isTerminal
}

// Width returns the terminal width, 80 when it is unknown.
func (o *Out) Width() int {
	if !o.isTerminal {
		return 80
	}

	w, _, err := term.GetSize(int(o.fd))
	if err != nil || w <= 0 {
		return 80
	}

	return w
}

func (o *Out) Printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}

func (o *Out) Print(messages ...any) {
	fmt.Fprint(o.out, messages...)
}

func (o *Out) Println(messages ...any) {
	fmt.Fprintln(o.out, messages...)
}

// Prompt writes label and reads one line of input without its line ending. The last line of
// the input is returned even when it is not newline terminated; after it io.EOF is returned.
func (o *Out) Prompt(label string) (string, error) {
	o.Print(label)

	line, err := o.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only y and yes, in any case, confirm.
func (o *Out) Confirm(label string) (bool, error) {
	answer, err := o.Prompt(label + " (y/n): ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
