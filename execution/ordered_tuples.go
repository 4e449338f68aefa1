package execution

import (
	"github.com/tidwall/btree"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

func compareTuples(t1, t2 storage.Tuple, orderBy []planner.OrderByClause) int {
	for _, order := range orderBy {
		v1 := order.Expr.Eval(t1)
		v2 := order.Expr.Eval(t2)
		cmp := v1.Compare(v2)
		if cmp == 0 {
			continue
		}

		if order.Direction == planner.SortOrderAscending {
			// ASC: Smaller values come first.
			return cmp
		}
		// DESC: Larger values come first.
		return -cmp
	}
	return 0
}

type orderedItem struct {
	tuple storage.Tuple
	seq   int // arrival order, breaks ties so equal keys keep their input order
}

// orderedTuples keeps tuples sorted by a list of order-by clauses. Tuples with equal keys stay in the order they
// were added, which makes sort and top-n agree on ties.
type orderedTuples struct {
	tree *btree.BTreeG[orderedItem]
	seq  int
}

func newOrderedTuples(orderBy []planner.OrderByClause) *orderedTuples {
	less := func(a, b orderedItem) bool {
		if cmp := compareTuples(a.tuple, b.tuple, orderBy); cmp != 0 {
			return cmp < 0
		}
		return a.seq < b.seq
	}
	return &orderedTuples{tree: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true})}
}

func (o *orderedTuples) add(t storage.Tuple) {
	o.tree.Set(orderedItem{tuple: t, seq: o.seq})
	o.seq++
}

func (o *orderedTuples) size() int {
	return o.tree.Len()
}

// dropLast removes the greatest tuple.
func (o *orderedTuples) dropLast() {
	o.tree.PopMax()
}

func (o *orderedTuples) sorted() []storage.Tuple {
	out := make([]storage.Tuple, 0, o.tree.Len())
	o.tree.Scan(func(item orderedItem) bool {
		out = append(out, item.tuple)
		return true
	})
	return out
}
