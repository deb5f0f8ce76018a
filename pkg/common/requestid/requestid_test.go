package requestid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithAndFrom(t *testing.T) {
	ctx := With(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", From(ctx))
}

func TestFromMissing(t *testing.T) {
	assert.Equal(t, "", From(context.Background()))
}
