package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLimit(t *testing.T) {
	l := New(zap.NewNop(), 0.0001, 2)
	assert.False(t, l.Limit())
	assert.False(t, l.Limit())
	assert.True(t, l.Limit(), "third call exceeds the burst")
}
