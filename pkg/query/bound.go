package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// Bound is statement text with positional placeholders and the coerced
// arguments for them, in placeholder order.
type Bound struct {
	SQL  string
	Args []any
}

// placeholders returns the highest placeholder number used in SQL.
func (b Bound) placeholders() int {
	highest := 0
	for _, m := range placeholderPattern.FindAllStringSubmatch(b.SQL, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// Check verifies that placeholders are numbered 1..n without gaps and that
// there is exactly one argument per placeholder.
func (b Bound) Check() error {
	seen := map[int]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(b.SQL, -1) {
		n, _ := strconv.Atoi(m[1])
		seen[n] = true
	}
	for i := 1; i <= b.placeholders(); i++ {
		if !seen[i] {
			return fmt.Errorf("placeholder $%d is missing", i)
		}
	}
	if len(seen) != len(b.Args) {
		return fmt.Errorf("%d placeholders but %d arguments", len(seen), len(b.Args))
	}
	return nil
}

// Select builds "SELECT <all columns> FROM <table> WHERE <predicate>" for the
// fields of filter.
func Select(reg *schema.Registry, filter *core.Document) (Bound, error) {
	pred, err := BuildPredicate(reg, filter)
	if err != nil {
		return Bound{}, err
	}
	args, err := Bind(reg, pred.Fields, filter)
	if err != nil {
		return Bound{}, err
	}
	return Bound{
		SQL:  fmt.Sprintf("SELECT %s FROM %s WHERE %s", reg.SelectList(), reg.Table(), pred.Text),
		Args: args,
	}, nil
}

// Patch builds "UPDATE <table> SET <assignment> WHERE id = $n" for the
// fields of changes. Each extra assignment (e.g. a timestamp refresh) is
// appended verbatim after the document fields and must not use placeholders.
func Patch(reg *schema.Registry, id uuid.UUID, changes *core.Document, extra ...string) (Bound, error) {
	assign, err := BuildAssignment(reg, changes)
	if err != nil {
		return Bound{}, err
	}
	args, err := Bind(reg, assign.Fields, changes)
	if err != nil {
		return Bound{}, err
	}

	set := assign.Set
	for _, e := range extra {
		set += ", " + e
	}
	return Bound{
		SQL:  fmt.Sprintf("UPDATE %s SET %s %s", reg.Table(), set, assign.Where()),
		Args: append(args, id),
	}, nil
}

// Insert builds "INSERT INTO <table> (<fields>) VALUES ($1, ...) RETURNING id"
// for the fields of values. Store-managed columns cannot be supplied.
func Insert(reg *schema.Registry, values *core.Document) (Bound, error) {
	assign, err := BuildAssignment(reg, values)
	if err != nil {
		return Bound{}, err
	}
	args, err := Bind(reg, assign.Fields, values)
	if err != nil {
		return Bound{}, err
	}

	placeholders := make([]string, len(assign.Fields))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return Bound{
		SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			reg.Table(), strings.Join(assign.Fields, ", "), strings.Join(placeholders, ", ")),
		Args: args,
	}, nil
}

// Delete builds "DELETE FROM <table> WHERE <predicate>" for the fields of filter.
func Delete(reg *schema.Registry, filter *core.Document) (Bound, error) {
	pred, err := BuildPredicate(reg, filter)
	if err != nil {
		return Bound{}, err
	}
	args, err := Bind(reg, pred.Fields, filter)
	if err != nil {
		return Bound{}, err
	}
	return Bound{
		SQL:  fmt.Sprintf("DELETE FROM %s WHERE %s", reg.Table(), pred.Text),
		Args: args,
	}, nil
}

// Page builds a SELECT of every column ordered by id, bounded by limit and
// skipping offset. Negative bounds are rejected; there is no upper cap.
func Page(reg *schema.Registry, limit, offset int64) (Bound, error) {
	if limit < 0 {
		return Bound{}, &core.InvalidInputError{Field: "limit", Reason: "must not be negative"}
	}
	if offset < 0 {
		return Bound{}, &core.InvalidInputError{Field: "offset", Reason: "must not be negative"}
	}
	return Bound{
		SQL:  fmt.Sprintf("SELECT %s FROM %s ORDER BY id ASC LIMIT $1 OFFSET $2", reg.SelectList(), reg.Table()),
		Args: []any{limit, offset},
	}, nil
}

// Count builds "SELECT COUNT(*) FROM <table>".
func Count(reg *schema.Registry) Bound {
	return Bound{SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", reg.Table())}
}
