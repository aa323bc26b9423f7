package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/target/jobboard/config"
)

func TestSeedIfConfigured_Skips(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	require.NoError(t, seedIfConfigured(ctx, &config.AppConfig{}, nil, logger))

	cfg := &config.AppConfig{DevSeedFile: "seed.yaml", Auth: config.AuthConfig{Mode: config.AuthModeFirebase}}
	require.NoError(t, seedIfConfigured(ctx, cfg, nil, logger))
}

func TestSeedIfConfigured_MissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.AppConfig{
		DevSeedFile: filepath.Join(t.TempDir(), "absent.yaml"),
		Auth:        config.AuthConfig{Mode: config.AuthModeMock},
	}
	require.ErrorContains(t, seedIfConfigured(context.Background(), cfg, nil, logger), "open seed file")
}
