package plandesc

import (
	"mit.edu/dsg/planopt/catalog"
	"mit.edu/dsg/planopt/common"
	"mit.edu/dsg/planopt/planner"
	"mit.edu/dsg/planopt/storage"
)

// Build validates the description, registers its sources in cat and returns the root of the plan. A node
// referenced by several consumers becomes a single shared plan node. Source nodes may also name sources that
// were already in cat.
func (d *Description) Build(cat *catalog.Catalog) (planner.PlanNode, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	for _, s := range d.Sources {
		table, err := s.table()
		if err != nil {
			return nil, err
		}
		if _, err := cat.AddSource(s.Name, table, nil); err != nil {
			return nil, err
		}
	}

	b := &builder{
		cat:   cat,
		descs: make(map[string]*NodeDesc, len(d.Nodes)),
		built: make(map[string]planner.PlanNode, len(d.Nodes)),
	}
	for i := range d.Nodes {
		b.descs[d.Nodes[i].ID] = &d.Nodes[i]
	}
	return b.build(d.Root)
}

func (s SourceDesc) table() (*storage.ColumnTable, error) {
	cols := make([]storage.Column, len(s.Columns))
	for i, c := range s.Columns {
		t, _ := common.ParseType(c.Type)
		values := make([]common.Value, len(s.Rows))
		for r, row := range s.Rows {
			v, err := catalog.DecodeValue(t, row[i])
			if err != nil {
				return nil, invalid("source %q row %d column %q: %v", s.Name, r, c.Name, err)
			}
			values[r] = v
		}
		cols[i] = storage.Column{Name: c.Name, Type: t, Values: values}
	}
	return storage.NewColumnTable(cols...)
}

type builder struct {
	cat   *catalog.Catalog
	descs map[string]*NodeDesc
	built map[string]planner.PlanNode
}

func (b *builder) build(id string) (planner.PlanNode, error) {
	if n, ok := b.built[id]; ok {
		return n, nil
	}
	desc := b.descs[id]
	inputs := make([]planner.PlanNode, len(desc.Inputs))
	for i, in := range desc.Inputs {
		child, err := b.build(in)
		if err != nil {
			return nil, err
		}
		inputs[i] = child
	}
	n, err := b.node(desc, inputs)
	if err != nil {
		return nil, err
	}
	b.built[id] = n
	return n, nil
}

func (b *builder) node(d *NodeDesc, inputs []planner.PlanNode) (planner.PlanNode, error) {
	var child planner.PlanNode
	var schema []planner.Column
	if len(inputs) > 0 {
		child = inputs[0]
		schema = child.OutputSchema()
	}

	switch d.Op {
	case "source":
		return b.cat.NewSourceNode(d.Source)
	case "range":
		return planner.NewRangeNode(d.Name, d.Start, d.End), nil
	case "constant":
		t, _ := common.ParseType(d.Type)
		v, err := catalog.DecodeValue(t, d.Value)
		if err != nil {
			return nil, invalid("constant node %q: %v", d.ID, err)
		}
		return planner.NewConstantNode(d.Name, v, d.Count), nil
	case "project":
		indices := make([]int, len(d.Columns))
		for i, c := range d.Columns {
			idx, err := resolveColumn(schema, c)
			if err != nil {
				return nil, nodeError(d, err)
			}
			indices[i] = idx
		}
		return planner.NewProjectionNode(child, indices), nil
	case "map":
		exprs := make([]planner.Expr, len(d.Exprs))
		names := make([]string, len(d.Exprs))
		for i, ne := range d.Exprs {
			e, err := bindExpr(schema, ne.Expr)
			if err != nil {
				return nil, nodeError(d, err)
			}
			exprs[i] = e
			names[i] = ne.Name
		}
		return planner.NewMapNode(child, exprs, names), nil
	case "filter":
		pred, err := bindExpr(schema, *d.Predicate)
		if err != nil {
			return nil, nodeError(d, err)
		}
		if pred.OutputType() != common.IntType {
			return nil, invalid("filter node %q: predicate %s is not boolean", d.ID, pred)
		}
		return planner.NewFilterNode(child, pred), nil
	case "union":
		return planner.NewUnionNode(inputs...), nil
	case "append":
		if !sameSchema(inputs[0].OutputSchema(), inputs[1].OutputSchema()) {
			return nil, invalid("append node %q: inputs have different column types", d.ID)
		}
		return planner.NewAppendNode(inputs[0], inputs[1]), nil
	case "limit":
		return planner.NewLimitNode(child, *d.Limit), nil
	case "sort", "topn":
		orderBy := make([]planner.OrderByClause, len(d.OrderBy))
		for i, o := range d.OrderBy {
			e, err := bindExpr(schema, o.Expr)
			if err != nil {
				return nil, nodeError(d, err)
			}
			orderBy[i] = planner.OrderByClause{Expr: e, Direction: planner.SortOrderAscending}
			if o.Desc {
				orderBy[i].Direction = planner.SortOrderDescending
			}
		}
		if d.Op == "topn" {
			return planner.NewTopNNode(child, *d.Limit, orderBy), nil
		}
		return planner.NewSortNode(child, orderBy), nil
	case "aggregate":
		groupBy := make([]planner.Expr, len(d.GroupBy))
		for i, g := range d.GroupBy {
			e, err := bindExpr(schema, g)
			if err != nil {
				return nil, nodeError(d, err)
			}
			groupBy[i] = e
		}
		aggs := make([]planner.AggregateClause, len(d.Aggregates))
		for i, a := range d.Aggregates {
			clause, err := bindAggregate(schema, a)
			if err != nil {
				return nil, nodeError(d, err)
			}
			aggs[i] = clause
		}
		return planner.NewAggregateNode(child, groupBy, aggs), nil
	case "materialize":
		return planner.NewMaterializeNode(child), nil
	case "identity":
		return planner.NewIdentityNode(child), nil
	}
	return nil, invalid("node %q has unknown op %q", d.ID, d.Op)
}

func sameSchema(a, b []planner.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

func nodeError(d *NodeDesc, err error) error {
	if pe, ok := err.(common.PlanError); ok {
		return common.NewPlanError(pe.Code, "%s node %q: %s", d.Op, d.ID, pe.ErrString)
	}
	return err
}
