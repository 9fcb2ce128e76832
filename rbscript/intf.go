package rbscript

import (
	"context"
	"io"

	"github.com/benz9527/xrbset/lib/tree"
)

// Interpreter runs line oriented scripts against a handle table of
// integer ordered sets and cursors into them.
type Interpreter interface {
	// Exec runs one script line. Comment and empty lines are no-ops,
	// "quit" returns ErrQuit.
	Exec(line string) error
	// Run executes every line of r until EOF or "quit". Failed lines do
	// not stop the run, their errors are combined.
	Run(ctx context.Context, r io.Reader) error
	// Dump prints the termination report, every set in handle order.
	Dump(w io.Writer) error
	Handles() []int
	Set(handle int) (tree.OrderedSet[int], bool)
}

type ScriptErr string

const (
	ErrQuit              ScriptErr = "quit"
	ErrCommandNotFound   ScriptErr = "command not found"
	ErrIllegalParameters ScriptErr = "illegal parameters"
	ErrSetNotFound       ScriptErr = "set not found"
	ErrSetExists         ScriptErr = "set already exists"
	ErrSetInvalid        ScriptErr = "set is not a valid red-black tree"
	ErrIteratorNotFound  ScriptErr = "iterator not found"
	ErrIteratorAtEnd     ScriptErr = "iterator is at end position"
	ErrIteratorForeign   ScriptErr = "iterator does not point into the set"
	ErrElementNotFound   ScriptErr = "element not found"
)

func (err ScriptErr) Error() string {
	return string(err)
}
