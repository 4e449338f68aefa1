package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	invalid := NewPlanError(InvalidPlanError, "bad type")
	dup := NewPlanError(DuplicateObjectError, "node declared twice")
	missing := NewPlanError(NoSuchObjectError, "no such node")

	assert.True(t, HasCode(invalid, InvalidPlanError))
	assert.False(t, HasCode(invalid, DuplicateObjectError))
	assert.False(t, HasCode(nil, InvalidPlanError))
	assert.False(t, HasCode(errors.New("plain"), InvalidPlanError))
	assert.True(t, HasCode(fmt.Errorf("plan.yaml: %w", missing), NoSuchObjectError))

	var errs *multierror.Error
	errs = multierror.Append(errs, invalid, errors.New("plain"), dup)
	agg := errs.ErrorOrNil()
	assert.True(t, HasCode(agg, InvalidPlanError))
	assert.True(t, HasCode(agg, DuplicateObjectError))
	assert.False(t, HasCode(agg, NoSuchObjectError))

	wrapped := fmt.Errorf("orders.yaml: %w", agg)
	assert.True(t, HasCode(wrapped, DuplicateObjectError))

	joined := errors.Join(invalid, fmt.Errorf("node x: %w", missing))
	assert.True(t, HasCode(joined, NoSuchObjectError))
	assert.False(t, HasCode(joined, ResourceLimitError))
}
