package rbscript

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/xrbset/lib/tree"
)

type command struct {
	name  string
	arity []int // accepted operand counts
	exec  func(it *interpreter, operands []int) error
}

var commands = lo.SliceToMap([]command{
	// Set creation and management.
	{name: "set_create", arity: []int{0, 1}, exec: (*interpreter).setCreate},
	{name: "set_copy", arity: []int{1, 2}, exec: (*interpreter).setCopy},
	{name: "set_copy_assign", arity: []int{2}, exec: (*interpreter).setCopyAssign},
	{name: "set_move", arity: []int{2}, exec: (*interpreter).setMove},
	{name: "set_move_assign", arity: []int{2}, exec: (*interpreter).setMoveAssign},
	{name: "set_swap", arity: []int{2}, exec: (*interpreter).setSwap},
	{name: "set_equal", arity: []int{2}, exec: (*interpreter).setEqual},
	{name: "set_destroy", arity: []int{1}, exec: (*interpreter).setDestroy},
	{name: "set_destroy_all", arity: []int{0}, exec: (*interpreter).setDestroyAll},

	// Element operations.
	{name: "set_insert", arity: []int{2}, exec: (*interpreter).setInsert},
	{name: "set_erase", arity: []int{2}, exec: (*interpreter).setErase},
	{name: "set_modify", arity: []int{3}, exec: (*interpreter).setModify},
	{name: "set_contains", arity: []int{2}, exec: (*interpreter).setContains},
	{name: "set_print", arity: []int{1}, exec: (*interpreter).setPrint},
	{name: "set_size", arity: []int{1}, exec: (*interpreter).setSize},
	{name: "set_is_empty", arity: []int{1}, exec: (*interpreter).setIsEmpty},
	{name: "set_clear", arity: []int{1}, exec: (*interpreter).setClear},
	{name: "set_manifest", arity: []int{1}, exec: (*interpreter).setManifest},
	{name: "set_validate", arity: []int{1}, exec: (*interpreter).setValidate},
	{name: "set_print_all", arity: []int{0}, exec: (*interpreter).setPrintAll},

	// Iterators.
	{name: "iter_get_begin", arity: []int{2}, exec: (*interpreter).iterGetBegin},
	{name: "iter_get_end", arity: []int{2}, exec: (*interpreter).iterGetEnd},
	{name: "iter_increase", arity: []int{1, 2}, exec: (*interpreter).iterIncrease},
	{name: "iter_decrease", arity: []int{1, 2}, exec: (*interpreter).iterDecrease},
	{name: "iter_is_end", arity: []int{1}, exec: (*interpreter).iterIsEnd},
	{name: "iter_erase", arity: []int{2}, exec: (*interpreter).iterErase},
	{name: "iter_discard", arity: []int{1}, exec: (*interpreter).iterDiscard},
	{name: "iter_compare", arity: []int{2}, exec: (*interpreter).iterCompare},
	{name: "iter_find", arity: []int{3}, exec: (*interpreter).iterFind},
	{name: "iter_print", arity: []int{1}, exec: (*interpreter).iterPrint},
}, func(cmd command) (string, command) {
	return cmd.name, cmd
})

// Commands lists the command names in lexical order.
func Commands() []string {
	names := lo.Keys(commands)
	slices.Sort(names)
	return names
}

func (it *interpreter) setCreate(operands []int) error {
	if len(operands) == 0 {
		handle := freeHandle(it.sets)
		it.sets[handle] = tree.NewOrderedSet[int]()
		it.printf("Handle not specified. Assigned handle %d for the created set.\n", handle)
		return nil
	}
	handle := operands[0]
	if _, ok := it.sets[handle]; ok {
		return it.fail(ErrSetExists, "Set %d already exists.", handle)
	}
	it.sets[handle] = tree.NewOrderedSet[int]()
	it.printf("Created a set with handle %d.\n", handle)
	return nil
}

func (it *interpreter) setCopy(operands []int) error {
	src, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if len(operands) == 1 {
		handle := freeHandle(it.sets)
		it.sets[handle] = src.Clone()
		it.printf("Handle not specified. Copy constructed set %d from set %d.\n", handle, operands[0])
		return nil
	}
	if dst, ok := it.sets[operands[1]]; ok {
		dst.CopyFrom(src)
		it.printf("Set %d found. Copy assigned set %d to set %d.\n", operands[1], operands[0], operands[1])
		return nil
	}
	it.sets[operands[1]] = src.Clone()
	it.printf("Copy constructed set %d from set %d.\n", operands[1], operands[0])
	return nil
}

func (it *interpreter) setCopyAssign(operands []int) error {
	src, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	dst, err := it.lookupSet(operands[1])
	if err != nil {
		return err
	}
	dst.CopyFrom(src)
	it.printf("Copy assigned set %d to set %d.\n", operands[0], operands[1])
	return nil
}

// The source handle is released, the destination handle takes over
// the tree (and the cursors into it).
func (it *interpreter) setMove(operands []int) error {
	src, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if operands[0] == operands[1] {
		it.printf("Moved set %d to set %d.\n", operands[0], operands[1])
		return nil
	}
	moved := src.Move()
	delete(it.sets, operands[0])
	it.sets[operands[1]] = moved
	it.printf("Moved set %d to set %d.\n", operands[0], operands[1])
	return nil
}

func (it *interpreter) setMoveAssign(operands []int) error {
	src, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if dst, ok := it.sets[operands[1]]; ok {
		dst.MoveFrom(src)
	} else {
		it.sets[operands[1]] = src.Move()
	}
	if operands[0] != operands[1] {
		delete(it.sets, operands[0])
	}
	it.printf("Move assigned set %d to set %d.\n", operands[0], operands[1])
	return nil
}

func (it *interpreter) setSwap(operands []int) error {
	a, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	b, err := it.lookupSet(operands[1])
	if err != nil {
		return err
	}
	a.Swap(b)
	it.printf("Swapped set %d with set %d.\n", operands[0], operands[1])
	return nil
}

func (it *interpreter) setEqual(operands []int) error {
	a, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	b, err := it.lookupSet(operands[1])
	if err != nil {
		return err
	}
	if a.Equal(b) {
		it.printf("Set %d equals set %d.\n", operands[0], operands[1])
	} else {
		it.printf("Set %d does not equal set %d.\n", operands[0], operands[1])
	}
	return nil
}

func (it *interpreter) setDestroy(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	set.Clear()
	delete(it.sets, operands[0])
	it.printf("Removed set %d.\n", operands[0])
	return nil
}

func (it *interpreter) setDestroyAll([]int) error {
	for handle, set := range it.sets {
		set.Clear()
		delete(it.sets, handle)
	}
	it.printf("All sets destroyed.\n")
	return nil
}

func (it *interpreter) setInsert(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	set.Insert(operands[1])
	it.printf("Inserted %d to set %d.\n", operands[1], operands[0])
	return nil
}

func (it *interpreter) setErase(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if !set.Contains(operands[1]) {
		return it.fail(ErrElementNotFound, "Element %d not found in set %d.", operands[1], operands[0])
	}
	set.Erase(operands[1])
	it.printf("Element %d removed from set %d.\n", operands[1], operands[0])
	return nil
}

// Keys are immutable in place, a modification is an erase and an insert.
func (it *interpreter) setModify(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if !set.Contains(operands[1]) {
		return it.fail(ErrElementNotFound, "Element %d not found in set %d.", operands[1], operands[0])
	}
	set.Erase(operands[1])
	set.Insert(operands[2])
	it.printf("Element %d modified to %d.\n", operands[1], operands[2])
	return nil
}

func (it *interpreter) setContains(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if set.Contains(operands[1]) {
		it.printf("Set %d contains element %d.\n", operands[0], operands[1])
	} else {
		it.printf("Set %d does not contain element %d.\n", operands[0], operands[1])
	}
	return nil
}

func (it *interpreter) setPrint(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	builder := strings.Builder{}
	builder.WriteString("\n")
	it.writeSet(&builder, operands[0], set)
	it.printf("%s", builder.String())
	return nil
}

func (it *interpreter) setSize(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	it.printf("Size of set %d is %d.\n", operands[0], set.Len())
	return nil
}

func (it *interpreter) setIsEmpty(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if set.Empty() {
		it.printf("Set %d is empty.\n", operands[0])
	} else {
		it.printf("Set %d is not empty.\n", operands[0])
	}
	return nil
}

func (it *interpreter) setClear(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	set.Clear()
	it.printf("Set %d is cleared.\n", operands[0])
	return nil
}

func (it *interpreter) setManifest(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	builder := strings.Builder{}
	if err = set.Manifest(&builder); err != nil {
		return err
	}
	it.printf("Manifest of set %d:\n%s", operands[0], builder.String())
	return nil
}

func (it *interpreter) setValidate(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if err = set.Validate(); err != nil {
		it.logger.ErrorStack(err, "set validation failed", zap.Int("set", operands[0]))
		return it.fail(ErrSetInvalid, "Set %d is not a valid red-black tree: %s.", operands[0], err.Error())
	}
	it.printf("Set %d is a valid red-black tree.\n", operands[0])
	return nil
}

func (it *interpreter) setPrintAll([]int) error {
	builder := strings.Builder{}
	builder.WriteString("\n")
	it.writeSets(&builder)
	it.printf("%s", builder.String())
	return nil
}

func (it *interpreter) iterGetBegin(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if _, ok := it.cursors[operands[1]]; ok {
		it.cursors[operands[1]] = set.Begin()
		it.printf("Iterator %d already exists and was relocated to the beginning of set %d.\n", operands[1], operands[0])
		return nil
	}
	it.cursors[operands[1]] = set.Begin()
	it.printf("Iterator %d created and set to the beginning of set %d.\n", operands[1], operands[0])
	return nil
}

func (it *interpreter) iterGetEnd(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	if _, ok := it.cursors[operands[1]]; ok {
		it.cursors[operands[1]] = set.End()
		it.printf("Iterator %d already exists and was relocated to the end of set %d.\n", operands[1], operands[0])
		return nil
	}
	it.cursors[operands[1]] = set.End()
	it.printf("Iterator %d created and set to the end of set %d.\n", operands[1], operands[0])
	return nil
}

// step moves a cursor by steps, the direction is the sign of steps.
func (it *interpreter) step(handle, steps int, verb string) error {
	c, err := it.lookupCursor(handle)
	if err != nil {
		return err
	}
	if c.IsEnd() {
		return it.fail(ErrIteratorAtEnd, "Iterator %d is at end position.", handle)
	}
	it.cursors[handle] = c.Advance(steps)
	if n := lo.Ternary(steps < 0, -steps, steps); n == 1 {
		it.printf("Iterator %d %s by one step.\n", handle, verb)
	} else {
		it.printf("Iterator %d %s by %d steps.\n", handle, verb, n)
	}
	return nil
}

func (it *interpreter) iterIncrease(operands []int) error {
	steps := 1
	if len(operands) == 2 {
		if steps = operands[1]; steps < 0 {
			return it.fail(ErrIllegalParameters, "Illegal parameters.")
		}
	}
	return it.step(operands[0], steps, "increased")
}

func (it *interpreter) iterDecrease(operands []int) error {
	steps := 1
	if len(operands) == 2 {
		if steps = operands[1]; steps < 0 {
			return it.fail(ErrIllegalParameters, "Illegal parameters.")
		}
	}
	return it.step(operands[0], -steps, "decreased")
}

func (it *interpreter) iterIsEnd(operands []int) error {
	c, err := it.lookupCursor(operands[0])
	if err != nil {
		return err
	}
	if c.IsEnd() {
		it.printf("Iterator %d is at end position.\n", operands[0])
	} else {
		it.printf("Iterator %d is not at end position.\n", operands[0])
	}
	return nil
}

// iterErase erases the element under the cursor and moves the cursor
// to the next position. Cursors of other sets are refused.
func (it *interpreter) iterErase(operands []int) error {
	c, err := it.lookupCursor(operands[0])
	if err != nil {
		return err
	}
	set, err := it.lookupSet(operands[1])
	if err != nil {
		return err
	}
	if c.IsEnd() {
		return it.fail(ErrIteratorAtEnd, "Iterator %d is at end position.", operands[0])
	}
	if !set.Owns(c) {
		return it.fail(ErrIteratorForeign, "Iterator %d does not point into set %d.", operands[0], operands[1])
	}
	it.cursors[operands[0]] = set.EraseAt(c)
	it.printf("Element pointed to by iterator %d was erased. Iterator %d relocated to the next position in set %d.\n",
		operands[0], operands[0], operands[1])
	return nil
}

func (it *interpreter) iterDiscard(operands []int) error {
	if _, err := it.lookupCursor(operands[0]); err != nil {
		return err
	}
	delete(it.cursors, operands[0])
	it.printf("Iterator %d removed from iterator list.\n", operands[0])
	return nil
}

func (it *interpreter) iterCompare(operands []int) error {
	a, err := it.lookupCursor(operands[0])
	if err != nil {
		return err
	}
	b, err := it.lookupCursor(operands[1])
	if err != nil {
		return err
	}
	if a == b {
		it.printf("Iterator %d is at the same position as iterator %d.\n", operands[0], operands[1])
	} else {
		it.printf("Iterator %d is at a different position from iterator %d.\n", operands[0], operands[1])
	}
	return nil
}

func (it *interpreter) iterFind(operands []int) error {
	set, err := it.lookupSet(operands[0])
	if err != nil {
		return err
	}
	pos := set.Find(operands[2])
	if pos.IsEnd() {
		return it.fail(ErrElementNotFound, "Element %d not found.", operands[2])
	}
	if _, ok := it.cursors[operands[1]]; !ok {
		it.printf("Iterator %d not found. Created iterator %d.\n", operands[1], operands[1])
	}
	it.cursors[operands[1]] = pos
	it.printf("Element %d found in set %d. Moved iterator %d to element %d.\n",
		operands[2], operands[0], operands[1], operands[2])
	return nil
}

func (it *interpreter) iterPrint(operands []int) error {
	c, err := it.lookupCursor(operands[0])
	if err != nil {
		return err
	}
	if c.IsEnd() {
		return it.fail(ErrIteratorAtEnd, "Iterator %d is at end position.", operands[0])
	}
	it.printf("Iterator %d points to element %d.\n", operands[0], c.Key())
	return nil
}
