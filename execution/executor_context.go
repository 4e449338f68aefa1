package execution

import (
	"mit.edu/dsg/planopt/common"
)

// ExecutorContext holds the settings shared by every executor of one query.
type ExecutorContext struct {
	// MaxBufferedRows bounds the number of rows a blocking operator (sort, aggregate, materialize) may hold.
	// Zero means unlimited.
	MaxBufferedRows int
}

func NewExecutorContext(maxBufferedRows int) *ExecutorContext {
	return &ExecutorContext{MaxBufferedRows: maxBufferedRows}
}

// checkBuffered returns an error once a blocking operator holds more rows than the context allows.
func (ctx *ExecutorContext) checkBuffered(op string, rows int) error {
	if ctx == nil || ctx.MaxBufferedRows <= 0 || rows <= ctx.MaxBufferedRows {
		return nil
	}
	return common.NewPlanError(common.ResourceLimitError,
		"%s buffered %d rows, more than the limit of %d", op, rows, ctx.MaxBufferedRows)
}
