package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the Config reads so each subtest starts
// from a clean environment.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"SOURCE_DIR", "SCRATCH_DIR",
		"FFMPEG_PATH", "FFPROBE_PATH", "OPKG_PATH",
		"CLIP_SECONDS", "WORKER_COUNT", "STRICT_EXIT",
		"S3_BUCKET", "S3_REGION", "S3_PREFIX",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"LOG_FORMAT", "LOG_LEVEL",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.SourceDir)
	assert.Equal(t, "/tmp/image_conversion", cfg.ScratchDir)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, "opkg", cfg.OpkgPath)
	assert.Equal(t, 1, cfg.ClipSeconds)
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.False(t, cfg.StrictExit)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE_DIR", "/media/photos")
	t.Setenv("SCRATCH_DIR", "/var/tmp/conv")
	t.Setenv("FFMPEG_PATH", "/opt/bin/ffmpeg")
	t.Setenv("CLIP_SECONDS", "2")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("STRICT_EXIT", "true")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/media/photos", cfg.SourceDir)
	assert.Equal(t, "/var/tmp/conv", cfg.ScratchDir)
	assert.Equal(t, "/opt/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 2, cfg.ClipSeconds)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.True(t, cfg.StrictExit)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("zero clip length rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CLIP_SECONDS", "0")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("zero workers rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("WORKER_COUNT", "0")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unknown log format rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_FORMAT", "xml")

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestS3Enabled(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		cfg := &Config{}
		assert.False(t, cfg.S3Enabled())
	})

	t.Run("bucket alone is not enough", func(t *testing.T) {
		cfg := &Config{S3Bucket: "clips"}
		assert.False(t, cfg.S3Enabled())
	})

	t.Run("bucket and region enable S3", func(t *testing.T) {
		cfg := &Config{S3Bucket: "clips", S3Region: "eu-west-1"}
		assert.True(t, cfg.S3Enabled())
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "info"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
	})

	t.Run("json format", func(t *testing.T) {
		cfg := &Config{LogFormat: "json", LogLevel: "debug"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: parseLogLevel("warn")})
		logger := slog.New(handler)

		logger.Info("hidden")
		logger.Warn("visible")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
	})
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		SourceDir:          "/media",
		AWSAccessKeyID:     "AKIA-SECRET",
		AWSSecretAccessKey: "very-secret",
	}

	s := cfg.String()
	assert.NotContains(t, s, "AKIA-SECRET")
	assert.NotContains(t, s, "very-secret")
	assert.Contains(t, s, "/media")
}
