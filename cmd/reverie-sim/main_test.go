package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/milk9111/reverie/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		debug   bool
		want    slog.Level
		wantErr bool
	}{
		{"info", "info", false, slog.LevelInfo, false},
		{"warn_upper", "WARN", false, slog.LevelWarn, false},
		{"debug_flag_wins", "error", true, slog.LevelDebug, false},
		{"bad", "chatty", false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newLogger(tt.level, tt.debug)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Enabled(context.Background(), tt.want))
			assert.False(t, l.Enabled(context.Background(), tt.want-1))
		})
	}
}

func TestRunScriptedLevel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sum, err := run(logger, 1, 1.0/60.0)
	require.NoError(t, err)

	assert.Equal(t, "drift", sum.level)
	assert.InDelta(t, 60, sum.ticks, 1)
	assert.False(t, sum.gameOver)
	assert.Equal(t, 0, sum.deaths)
	assert.Greater(t, sum.health, 0.0)
	assert.GreaterOrEqual(t, sum.counts[ecs.EventPickup], 2, "the interact step takes the staff and the mora")
	assert.Contains(t, sum.String(), "level drift")
}

func TestSummaryString(t *testing.T) {
	s := summary{
		level:   "drift",
		elapsed: 2,
		ticks:   120,
		counts:  map[ecs.EventType]int{ecs.EventDamage: 2, ecs.EventAttack: 1},
		states:  []string{"chasing", "attacking"},
	}
	out := s.String()
	assert.Contains(t, out, "level drift: 2.00s in 120 ticks")
	assert.Regexp(t, `attack\s+1\n\s+damage\s+2`, out)
	assert.Contains(t, out, "pursuit: chasing attacking")
}
