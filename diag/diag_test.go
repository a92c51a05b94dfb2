package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	err := Errorf(KindUndefinedSymbol, "undefined symbol: '%s'", "foo")
	assert.Equal(t, KindUndefinedSymbol, err.Kind)
	assert.Equal(t, "undefined symbol: 'foo'", err.Error())

	var tagged *Error
	assert.True(t, errors.As(error(err), &tagged))
}

func TestCollectorOrder(t *testing.T) {
	var c Collector
	assert.False(t, c.HasErrors())

	c.Report(3, "add x1", Errorf(KindOperandCountMismatch, "bad arity"))
	c.Report(7, "j nowhere", Errorf(KindUndefinedSymbol, "undefined"))
	c.Report(9, "???", errors.New("plain error"))

	require.True(t, c.HasErrors())
	diags := c.Diagnostics()
	require.Len(t, diags, 3)

	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, "add x1", diags[0].Source)
	assert.Equal(t, KindOperandCountMismatch, diags[0].Kind)

	assert.Equal(t, 7, diags[1].Line)
	assert.Equal(t, KindUndefinedSymbol, diags[1].Kind)

	// Untagged errors keep an empty kind.
	assert.Equal(t, Kind(""), diags[2].Kind)
	assert.Equal(t, "plain error", diags[2].Message)
}
