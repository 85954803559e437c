package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_KeepsFullPrecision(t *testing.T) {
	schema := Schema()
	require.Contains(t, schema, "CREATE TABLE IF NOT EXISTS sales")
	assert.NotRegexp(t, regexp.MustCompile(`(?i)NUMERIC\s*\(`), schema,
		"scaled NUMERIC columns would round validated amounts")
}

func TestNewPool_RequiresURL(t *testing.T) {
	_, err := NewPool(context.Background(), "")
	assert.ErrorContains(t, err, "DATABASE_URL")
}
