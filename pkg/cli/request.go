package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// Request is the parsed command line of one sub-command: the words naming it and its
// -key=value parameters. A bare -flag reads as "true".
type Request struct {
	command []string
	params  map[string]string
}

func NewRequest(args []string) *Request {
	r := &Request{params: make(map[string]string)}

	for _, arg := range args {
		if arg == "" || arg == "-" || arg == "--" {
			continue
		}

		if arg[0] != '-' {
			r.command = append(r.command, arg)
			continue
		}

		arg = strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")

		key, value, found := strings.Cut(arg, "=")
		if !found {
			value = "true"
		}

		r.params[key] = value
	}

	return r
}

// Command is the sub-command path, e.g. "check tables".
func (r *Request) Command() string {
	return strings.Join(r.command, " ")
}

// Param returns the value of the parameter for key.
func (r *Request) Param(key string) string {
	return r.params[key]
}

// Lookup returns the value of key and whether it was given at all, so "-key=" can clear a default.
func (r *Request) Lookup(key string) (string, bool) {
	v, ok := r.params[key]

	return v, ok
}

func (r *Request) ParamOrDefault(key, def string) string {
	if v, ok := r.params[key]; ok && v != "" {
		return v
	}

	return def
}

// Bool reports whether a flag is set to a true value.
func (r *Request) Bool(key string) bool {
	b, err := strconv.ParseBool(r.params[key])

	return err == nil && b
}

// Require returns the value of key or an error naming the missing parameter.
func (r *Request) Require(key string) (string, error) {
	if v := r.params[key]; v != "" && v != "true" {
		return v, nil
	}

	return "", MissingParam{Name: key}
}

// MissingParam is returned when a required parameter is absent.
type MissingParam struct {
	Name string
}

func (e MissingParam) Error() string {
	return fmt.Sprintf("missing parameter -%s=<value>", e.Name)
}
