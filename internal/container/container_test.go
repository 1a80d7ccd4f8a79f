package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Routing.Enabled = false
	cfg.Document.AssetsDir = t.TempDir()
	cfg.Document.ArchiveDir = t.TempDir()
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(DefaultConfig(), nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Claim.SessionTTL = 0
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, c.Ready())

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(context.Background()), "second start")

	health := c.Health()
	assert.True(t, health.Overall)
	assert.True(t, health.Components["routing"].Healthy)
	assert.Contains(t, health.Components["routing"].Message, "disabled")
	assert.Equal(t, []string{"maintenance"}, c.Workers().Names())
	assert.Equal(t, 7, len(c.Catalog().List()))

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close(), "second close")
	assert.Error(t, c.Start(context.Background()), "start after close")
}

func TestContainer_ClaimFlowWithoutRouting(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	ctx := context.Background()
	claims := c.ClaimService()

	view, err := claims.StartSession(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, entity.VehicleCar, view.Record.VehicleType)

	_, err = claims.MapClick(ctx, view.SessionID, entity.Coordinate{Lat: 13.7367, Lng: 100.5232})
	require.NoError(t, err)
	view, err = claims.MapClick(ctx, view.SessionID, entity.Coordinate{Lat: 13.7462, Lng: 100.5347})
	require.NoError(t, err)

	require.NotNil(t, view.Record.Resolution)
	assert.True(t, view.Record.Resolution.IsFallback)
	assert.Greater(t, view.Record.TotalAmount, 0.0)
}

func TestConvertToZapFields(t *testing.T) {
	fields := convertToZapFields("session_id", "abc", 42, "skipped", "count", 3, "dangling")
	require.Len(t, fields, 2)
	assert.Equal(t, "session_id", fields[0].Key)
	assert.Equal(t, "count", fields[1].Key)
}
