package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndRecordOutcome(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	now := time.Now()
	err = store.Record(ctx, Outcome{
		ChannelID:      "s0",
		RecordID:       3,
		Dialect:        "ptmp",
		IsAgent:        true,
		IsCCNR:         false,
		TerminalReason: "t_ccbs2",
		CreatedAt:      now.Add(-30 * time.Second),
		ClosedAt:       now,
	})
	require.NoError(t, err)

	outcomes, err := store.ListByChannel(ctx, "s0", 10)
	require.NoError(t, err)
	assert.Len(t, outcomes, 1)
	assert.Equal(t, "t_ccbs2", outcomes[0].TerminalReason)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("bogus"), "")
	assert.Error(t, err)
}
