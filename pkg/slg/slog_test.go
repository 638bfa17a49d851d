package slg_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"kokorotts/pkg/slg"

	"github.com/stretchr/testify/require"
)

func TestGetSlog(t *testing.T) {
	require.Same(t, slog.Default(), slg.GetSlog(context.Background()))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := slg.WithSlog(context.Background(), logger)

	require.Same(t, logger, slg.GetSlog(ctx))
}
