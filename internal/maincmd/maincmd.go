// Package maincmd implements the cmd/jaspr diagnostic runner: load a JSON
// document, evaluate it as a Jaspr program against the universal scope, and
// print the result (or the first unhandled error) as JSON. It is
// deliberately not a REPL or a pretty-printer — both are out of scope
// — just enough of a front-end to exercise the evaluation core from
// the command line.
package maincmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/mna/mainer"

	"github.com/jaspr-lang/jaspr/eval"
	"github.com/jaspr-lang/jaspr/value"
)

const binName = "jaspr"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>
       %[1]s -h|--help
       %[1]s -v|--version

Diagnostic runner for the evaluation core of the %[1]s language.

The <command> can be one of:
       run                       Evaluate the JSON document at <path> as a
                                 program and print its result as JSON.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args  []string
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}
	commands := buildCmds(c)
	c.cmdFn = commands[c.args[0]]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}
	if len(c.args[1:]) != 1 {
		return fmt.Errorf("%s: exactly one path must be provided", c.args[0])
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	return mainer.Success
}

func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)
	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		if fn, ok := vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error); ok {
			cmds[toKebab(m.Name)] = fn
		}
	}
	return cmds
}

func toKebab(name string) string {
	out := make([]byte, 0, len(name))
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out = append(out, '-')
			}
			out = append(out, byte(r-'A'+'a'))
			continue
		}
		out = append(out, byte(r))
	}
	return string(out)
}

// Run evaluates the JSON document at path[0] against the universal scope
// and prints the result as JSON to stdio.Stdout, or the first unhandled
// error object to stdio.Stderr with a non-nil return.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, paths []string) error {
	raw, err := os.ReadFile(paths[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", paths[0], err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("%s: %w", paths[0], value.NewError(value.ErrParseFailed, err.Error()))
	}
	code := value.FromJSON(decoded)

	type outcome struct {
		v   value.Value
		err *value.Object
	}
	ch := make(chan outcome, 1)
	send := func(o outcome) {
		select {
		case ch <- o:
		default:
		}
	}

	root := eval.NewRoot(func(errObj *value.Object, branch *eval.Branch) (value.Value, bool) {
		send(outcome{err: errObj})
		return nil, true
	})

	rootCtx := eval.NewCtx(root, root.RootScope())
	result := root.Branch().NewFiber()
	go eval.Expand(rootCtx, code, func(expanded value.Value) {
		eval.Eval(rootCtx, expanded, result.Resolve)
	})
	result.Await(func(v value.Value) { send(outcome{v: v}) })

	o := <-ch
	if o.err != nil {
		errJSON, _ := value.ToJSON(o.err)
		out, _ := json.MarshalIndent(errJSON, "", "  ")
		fmt.Fprintln(stdio.Stderr, string(out))
		return fmt.Errorf("unhandled error: %s", o.err.String())
	}
	v := o.v

	out, err := value.MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Fprintln(stdio.Stdout, string(out))
	return nil
}
