// Package plandesc reads query plans written as YAML documents. A description lists named sources with their
// data, the plan nodes by id, and the id of the root node. Nodes may be referenced as inputs by several other
// nodes, which makes the plan a DAG.
package plandesc

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"mit.edu/dsg/planopt/common"
	"sigs.k8s.io/yaml"
)

type Description struct {
	Sources []SourceDesc `json:"sources,omitempty"`
	Nodes   []NodeDesc   `json:"nodes"`
	Root    string       `json:"root"`
}

// SourceDesc declares an in-memory table. Rows are lists of scalars in column order; null is NULL.
type SourceDesc struct {
	Name    string       `json:"name"`
	Columns []ColumnDesc `json:"columns"`
	Rows    [][]any      `json:"rows,omitempty"`
}

type ColumnDesc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NodeDesc is one plan node. Which parameters are read depends on Op.
type NodeDesc struct {
	ID     string   `json:"id"`
	Op     string   `json:"op"`
	Inputs []string `json:"inputs,omitempty"`

	// source
	Source string `json:"source,omitempty"`
	// range, constant
	Name  string `json:"name,omitempty"`
	Start int64  `json:"start,omitempty"`
	End   int64  `json:"end,omitempty"`
	Value any    `json:"value,omitempty"`
	Type  string `json:"type,omitempty"`
	Count int    `json:"count,omitempty"`
	// project: column names or offsets of the input
	Columns []any `json:"columns,omitempty"`
	// map
	Exprs []NamedExpr `json:"exprs,omitempty"`
	// filter
	Predicate *ExprDesc `json:"predicate,omitempty"`
	// limit, topn
	Limit *int `json:"limit,omitempty"`
	// sort, topn
	OrderBy []OrderDesc `json:"order_by,omitempty"`
	// aggregate
	GroupBy    []ExprDesc `json:"group_by,omitempty"`
	Aggregates []AggDesc  `json:"aggregates,omitempty"`
}

// ExprDesc is an expression tree. Exactly one of Col, Int, Str, Null or Op is set; Null holds the type
// name of a NULL literal.
type ExprDesc struct {
	Col  any        `json:"col,omitempty"` // input column name or offset
	Int  *int64     `json:"int,omitempty"`
	Str  *string    `json:"str,omitempty"`
	Null string     `json:"null_of,omitempty"` // type of a NULL literal
	Op   string     `json:"op,omitempty"`
	Args []ExprDesc `json:"args,omitempty"`
}

type NamedExpr struct {
	Name string   `json:"name,omitempty"`
	Expr ExprDesc `json:"expr"`
}

type OrderDesc struct {
	Expr ExprDesc `json:"expr"`
	Desc bool     `json:"desc,omitempty"`
}

type AggDesc struct {
	Func string   `json:"func"`
	Expr ExprDesc `json:"expr"`
}

func useNumber(d *json.Decoder) *json.Decoder {
	d.UseNumber()
	return d
}

// Parse decodes a YAML (or JSON) plan description. Unknown fields are rejected. The description is not
// validated; call Validate or Build for that.
func Parse(data []byte) (*Description, error) {
	var d Description
	if err := yaml.UnmarshalStrict(data, &d, useNumber); err != nil {
		return nil, common.NewPlanError(common.InvalidPlanError, "cannot parse plan description: %v", err)
	}
	return &d, nil
}

// Load reads and parses the plan description stored at path.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

type opSpec struct {
	minInputs int
	maxInputs int // -1 for no limit
}

var ops = map[string]opSpec{
	"source":      {0, 0},
	"range":       {0, 0},
	"constant":    {0, 0},
	"project":     {1, 1},
	"map":         {1, 1},
	"filter":      {1, 1},
	"union":       {1, -1},
	"append":      {2, 2},
	"limit":       {1, 1},
	"sort":        {1, 1},
	"topn":        {1, 1},
	"aggregate":   {1, 1},
	"materialize": {1, 1},
	"identity":    {1, 1},
}

func invalid(format string, args ...any) error {
	return common.NewPlanError(common.InvalidPlanError, format, args...)
}

// Validate checks the structure of the description: unique names, known operators, input arity, references
// to existing nodes and sources, required parameters, and the absence of cycles. Every problem found is
// reported. Expressions are checked against schemas later, by Build.
func (d *Description) Validate() error {
	var errs *multierror.Error

	sources := make(map[string]bool)
	for i, s := range d.Sources {
		if s.Name == "" {
			errs = multierror.Append(errs, invalid("source %d has no name", i))
			continue
		}
		if sources[s.Name] {
			errs = multierror.Append(errs, common.NewPlanError(common.DuplicateObjectError, "source %q declared twice", s.Name))
		}
		sources[s.Name] = true
		if len(s.Columns) == 0 {
			errs = multierror.Append(errs, invalid("source %q has no columns", s.Name))
		}
		for _, c := range s.Columns {
			if _, ok := common.ParseType(c.Type); !ok {
				errs = multierror.Append(errs, invalid("source %q column %q has unknown type %q", s.Name, c.Name, c.Type))
			}
		}
		for r, row := range s.Rows {
			if len(row) != len(s.Columns) {
				errs = multierror.Append(errs, invalid("source %q row %d has %d values, expected %d", s.Name, r, len(row), len(s.Columns)))
			}
		}
	}

	nodes := make(map[string]*NodeDesc, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ID == "" {
			errs = multierror.Append(errs, invalid("node %d has no id", i))
			continue
		}
		if _, dup := nodes[n.ID]; dup {
			errs = multierror.Append(errs, common.NewPlanError(common.DuplicateObjectError, "node %q declared twice", n.ID))
			continue
		}
		nodes[n.ID] = n
	}

	for i := range d.Nodes {
		n := &d.Nodes[i]
		spec, ok := ops[n.Op]
		if !ok {
			errs = multierror.Append(errs, invalid("node %q has unknown op %q", n.ID, n.Op))
			continue
		}
		if len(n.Inputs) < spec.minInputs || (spec.maxInputs >= 0 && len(n.Inputs) > spec.maxInputs) {
			errs = multierror.Append(errs, invalid("node %q (%s) has %d inputs", n.ID, n.Op, len(n.Inputs)))
		}
		for _, in := range n.Inputs {
			if _, ok := nodes[in]; !ok {
				errs = multierror.Append(errs, common.NewPlanError(common.NoSuchObjectError, "node %q reads from undefined node %q", n.ID, in))
			}
		}
		if err := n.validateParams(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if d.Root == "" {
		errs = multierror.Append(errs, invalid("description has no root"))
	} else if _, ok := nodes[d.Root]; !ok {
		errs = multierror.Append(errs, common.NewPlanError(common.NoSuchObjectError, "root %q is not a node", d.Root))
	}

	if err := checkAcyclic(d.Nodes, nodes); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

func (n *NodeDesc) validateParams() error {
	switch n.Op {
	case "source":
		if n.Source == "" {
			return invalid("source node %q names no source", n.ID)
		}
	case "range", "constant":
		if n.Name == "" {
			return invalid("%s node %q has no column name", n.Op, n.ID)
		}
		if n.Op == "constant" {
			if _, ok := common.ParseType(n.Type); !ok {
				return invalid("constant node %q has unknown type %q", n.ID, n.Type)
			}
			if n.Count < 0 {
				return invalid("constant node %q has negative count %d", n.ID, n.Count)
			}
		}
	case "project":
		if len(n.Columns) == 0 {
			return invalid("project node %q selects no columns", n.ID)
		}
	case "map":
		if len(n.Exprs) == 0 {
			return invalid("map node %q has no expressions", n.ID)
		}
	case "filter":
		if n.Predicate == nil {
			return invalid("filter node %q has no predicate", n.ID)
		}
	case "limit", "topn":
		if n.Limit == nil || *n.Limit < 0 {
			return invalid("%s node %q needs a non-negative limit", n.Op, n.ID)
		}
		if n.Op == "topn" && len(n.OrderBy) == 0 {
			return invalid("topn node %q has no order_by", n.ID)
		}
	case "sort":
		if len(n.OrderBy) == 0 {
			return invalid("sort node %q has no order_by", n.ID)
		}
	case "aggregate":
		if len(n.Aggregates) == 0 && len(n.GroupBy) == 0 {
			return invalid("aggregate node %q has neither group_by nor aggregates", n.ID)
		}
	}
	return nil
}

// checkAcyclic reports the first cycle found among node inputs.
func checkAcyclic(list []NodeDesc, nodes map[string]*NodeDesc) error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(nodes))
	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case grey:
			return invalid("node %q is part of a cycle", id)
		case black:
			return nil
		}
		color[id] = grey
		if n, ok := nodes[id]; ok {
			for _, in := range n.Inputs {
				if err := visit(in); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}
	for _, n := range list {
		if err := visit(n.ID); err != nil {
			return err
		}
	}
	return nil
}
