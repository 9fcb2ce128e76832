package rbscript

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xrbset/lib/infra"
	"github.com/benz9527/xrbset/lib/tree"
	"github.com/benz9527/xrbset/xlog"
)

const commentPrefix = "//"

var _ Interpreter = (*interpreter)(nil)

type interpreter struct {
	sets         map[int]tree.OrderedSet[int]
	cursors      map[int]tree.Cursor[int]
	out          io.Writer
	logger       xlog.XLogger
	echoComments bool
}

type Option func(*interpreter)

// WithOutput redirects the command messages, io.Discard by default.
func WithOutput(w io.Writer) Option {
	return func(it *interpreter) {
		if w != nil {
			it.out = w
		}
	}
}

func WithLogger(logger xlog.XLogger) Option {
	return func(it *interpreter) {
		if logger != nil {
			it.logger = logger
		}
	}
}

// WithEchoComments prints the comment lines of a script to the output.
func WithEchoComments(echo bool) Option {
	return func(it *interpreter) {
		it.echoComments = echo
	}
}

func NewInterpreter(opts ...Option) Interpreter {
	it := &interpreter{
		sets:    make(map[int]tree.OrderedSet[int], 8),
		cursors: make(map[int]tree.Cursor[int], 8),
		out:     io.Discard,
		logger:  xlog.NewNopXLogger(),
	}
	for _, o := range opts {
		if o != nil {
			o(it)
		}
	}
	return it
}

func (it *interpreter) Exec(line string) error {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}
	if strings.HasPrefix(line, commentPrefix) {
		if it.echoComments {
			it.printf("%s\n", line)
		}
		return nil
	}
	if line == "quit" {
		return ErrQuit
	}

	args, err := shellwords.Parse(line)
	if err != nil || len(args) == 0 {
		return it.fail(ErrIllegalParameters, "Illegal parameters.")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		it.logger.Warn("unknown command", zap.String("cmd", args[0]))
		return it.fail(ErrCommandNotFound, "Command not found.")
	}
	operands, err := parseOperands(args[1:])
	if err != nil || !slices.Contains(cmd.arity, len(operands)) {
		it.logger.Warn("illegal parameters", zap.String("cmd", cmd.name), zap.Strings("args", args[1:]))
		return it.fail(ErrIllegalParameters, "Illegal parameters.")
	}

	it.logger.Debug("exec", zap.String("cmd", cmd.name), zap.Ints("operands", operands))
	if err = cmd.exec(it, operands); err != nil {
		it.logger.Warn("command failed", zap.String("cmd", cmd.name), zap.String("error", err.Error()))
	}
	return err
}

func (it *interpreter) Run(ctx context.Context, r io.Reader) (err error) {
	if r == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
		e := it.Exec(scanner.Text())
		if errors.Is(e, ErrQuit) {
			break
		}
		if e != nil {
			err = multierr.Append(err, infra.WrapErrorStackWithMessage(e, "line "+strconv.Itoa(lineNo)))
		}
	}
	return multierr.Append(err, scanner.Err())
}

func (it *interpreter) Dump(w io.Writer) error {
	if w == nil {
		return nil
	}
	builder := strings.Builder{}
	builder.WriteString("\nSet contents at termination:\n\n")
	it.writeSets(&builder)
	_, err := io.WriteString(w, builder.String())
	return err
}

func (it *interpreter) Handles() []int {
	handles := lo.Keys(it.sets)
	slices.Sort(handles)
	return handles
}

func (it *interpreter) Set(handle int) (tree.OrderedSet[int], bool) {
	set, ok := it.sets[handle]
	return set, ok
}

const separator = "================================================"

func (it *interpreter) writeSet(builder *strings.Builder, handle int, set tree.OrderedSet[int]) {
	builder.WriteString("Set " + strconv.Itoa(handle) + "\n" + separator + "\n")
	for _, key := range lo.Map(set.Keys(), func(key int, _ int) string {
		return strconv.Itoa(key)
	}) {
		builder.WriteString(key + "\n")
	}
	builder.WriteString("\n")
}

func (it *interpreter) writeSets(builder *strings.Builder) {
	for _, handle := range it.Handles() {
		it.writeSet(builder, handle, it.sets[handle])
	}
}

func (it *interpreter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(it.out, format, args...)
}

// fail prints the user facing message and returns the sentinel with
// the message and the call stack attached.
func (it *interpreter) fail(sentinel ScriptErr, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	it.printf("%s\n", msg)
	return infra.WrapErrorStackWithMessage(sentinel, strings.TrimSuffix(msg, "."))
}

func (it *interpreter) lookupSet(handle int) (tree.OrderedSet[int], error) {
	set, ok := it.sets[handle]
	if !ok {
		return nil, it.fail(ErrSetNotFound, "Set %d not found.", handle)
	}
	return set, nil
}

func (it *interpreter) lookupCursor(handle int) (tree.Cursor[int], error) {
	c, ok := it.cursors[handle]
	if !ok {
		return c, it.fail(ErrIteratorNotFound, "Iterator %d not found.", handle)
	}
	return c, nil
}

// freeHandle is the smallest non-negative handle not in use.
func freeHandle[V any](m map[int]V) int {
	handle := 0
	for ; ; handle++ {
		if _, ok := m[handle]; !ok {
			return handle
		}
	}
}

func parseOperands(args []string) ([]int, error) {
	operands := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, n)
	}
	return operands, nil
}
