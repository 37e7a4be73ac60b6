//go:build integration

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestOpenPostgresRunsMigrationsAndRecords(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("pricc_audit"),
		postgres.WithUsername("pricc"),
		postgres.WithPassword("pricc"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	defer container.Terminate(ctx)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := Open(ctx, DriverPostgres, dsn)
	require.NoError(t, err)
	defer store.Close()

	now := time.Now()
	require.NoError(t, store.Record(ctx, Outcome{
		ChannelID:      "s0",
		RecordID:       7,
		Dialect:        "qsig",
		TerminalReason: "normal",
		CreatedAt:      now.Add(-time.Minute),
		ClosedAt:       now,
	}))

	outcomes, err := store.ListByChannel(ctx, "s0", 5)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
}
