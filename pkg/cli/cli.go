// Package cli routes the words of a command line to sub-command handlers.
package cli

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"blobaudit.dev/pkg/logging"
	"blobaudit.dev/pkg/terminal"
)

// Context carries what a sub-command handler needs.
type Context struct {
	context.Context
	*Request

	Out    *terminal.Out
	Logger logging.Logger
}

// Handler runs a sub-command. A non-nil result is printed; an error is reported and makes the
// process exit non-zero.
type Handler func(c *Context) (any, error)

type route struct {
	pattern     string
	re          *regexp.Regexp
	handler     Handler
	description string
	help        string
}

type Options func(r *route)

// AddDescription adds the one-line description shown in the command list.
func AddDescription(desc string) Options {
	return func(r *route) {
		r.description = desc
	}
}

// AddHelp adds the usage text shown for "<command> -h".
func AddHelp(help string) Options {
	return func(r *route) {
		r.help = help
	}
}

type ErrCommandNotFound struct {
	Command string
}

func (e ErrCommandNotFound) Error() string {
	if e.Command == "" {
		return "no command given"
	}

	return fmt.Sprintf("unknown command %q", e.Command)
}

type App struct {
	routes []route
	out    *terminal.Out
	logger logging.Logger
}

func New(out *terminal.Out, logger logging.Logger) *App {
	return &App{out: out, logger: logger}
}

// SubCommand registers h for commands matching pattern. The pattern must match the whole
// command; routes are tried in registration order.
func (a *App) SubCommand(pattern string, h Handler, options ...Options) {
	r := route{
		pattern: pattern,
		re:      regexp.MustCompile("^(?:" + pattern + ")$"),
		handler: h,
	}

	for _, opt := range options {
		opt(&r)
	}

	a.routes = append(a.routes, r)
}

func (a *App) match(command string) *route {
	for i := range a.routes {
		if a.routes[i].re.MatchString(command) {
			return &a.routes[i]
		}
	}

	return nil
}

// Run dispatches args (without the program name) and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	req := NewRequest(args)
	command := req.Command()
	r := a.match(command)

	if req.Bool("h") || req.Bool("help") || command == "help" {
		a.printHelp(r)
		return 0
	}

	if r == nil {
		a.out.Fail("%v", ErrCommandNotFound{Command: command})
		a.printHelp(nil)

		return 1
	}

	c := &Context{Context: ctx, Request: req, Out: a.out, Logger: a.logger}

	return a.respond(r.handler(c))
}

func (a *App) respond(data any, err error) int {
	if data != nil {
		a.out.Println(data)
	}

	if err == nil {
		return 0
	}

	var missing MissingParam
	if errors.As(err, &missing) {
		a.out.Fail("%v", err)
		return 2
	}

	a.logger.Errorf("%v", err)
	a.out.Fail("%v", err)

	return 1
}

func (a *App) printHelp(r *route) {
	if r != nil && r.help != "" {
		a.out.Printf("%s\n\n%s\n", r.description, r.help)
		return
	}

	a.out.Println("Available commands:")

	for _, r := range a.routes {
		a.out.Printf("\n  %s\n", r.pattern)

		if r.description != "" {
			a.out.Printf("    %s\n", r.description)
		}
	}
}
