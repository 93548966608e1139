package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/lumabank/chequer/audit"
	"github.com/lumabank/chequer/db"
	"github.com/lumabank/chequer/db/models"
	"github.com/lumabank/chequer/intent"
	"github.com/lumabank/chequer/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	gdb      *gorm.DB
	resolver *ledger.Resolver
	proc     *Processor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := db.DefaultConfig()
	cfg.DSN = ":memory:"
	cfg.SQLite.WAL = false
	gdb, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))

	resolver := ledger.NewResolver(gdb, nil, nil)
	engine := ledger.NewEngine(gdb, resolver, nil)
	recorder := audit.NewRecorder(gdb, nil, nil)
	proc := New(intent.New(intent.DefaultConfig()), engine, recorder, nil)
	return fixture{gdb: gdb, resolver: resolver, proc: proc}
}

func (f fixture) party(t *testing.T, name string) models.Entity {
	t.Helper()
	ent, err := f.resolver.ResolveOrCreate(context.Background(), name)
	require.NoError(t, err)
	return ent
}

func (f fixture) auditCount(t *testing.T, userID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.gdb.Model(&models.TransactionRecord{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestProcessIssue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.party(t, "Dana")

	out, err := f.proc.Process(ctx, me.ID, "Issue a check to Alice for $500")
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.False(t, out.NeedsClarification)
	require.NotNil(t, out.Check)
	assert.Equal(t, models.CheckPending, out.Check.Status)
	assert.Contains(t, out.Message, "issued to Alice")

	// Exactly one audit row, marked SUCCESS, carrying the utterance.
	require.Equal(t, int64(1), f.auditCount(t, me.ID))
	var row models.TransactionRecord
	require.NoError(t, f.gdb.Where("user_id = ?", me.ID).First(&row).Error)
	assert.Equal(t, string(intent.OpIssueCheck), row.OperationType)
	assert.Equal(t, models.RecordSuccess, row.Status)
	assert.Equal(t, "Issue a check to Alice for $500", row.ConversationContext)
	assert.Greater(t, row.IntentConfidence, 0.0)
	require.NotNil(t, row.CounterpartyID)
	assert.Equal(t, out.Check.PayeeID, *row.CounterpartyID)
}

func TestProcessClarificationExecutesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.party(t, "Dana")

	out, err := f.proc.Process(ctx, me.ID, "deny it")
	require.NoError(t, err)

	assert.True(t, out.NeedsClarification)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "reference_id")

	var checks int64
	require.NoError(t, f.gdb.Model(&models.Check{}).Count(&checks).Error)
	assert.Zero(t, checks)

	// The attempt is still audited, as a failure.
	require.Equal(t, int64(1), f.auditCount(t, me.ID))
	var row models.TransactionRecord
	require.NoError(t, f.gdb.Where("user_id = ?", me.ID).First(&row).Error)
	assert.Equal(t, models.RecordFailure, row.Status)
}

func TestProcessUnknownUtterance(t *testing.T) {
	f := newFixture(t)
	me := f.party(t, "Dana")

	out, err := f.proc.Process(context.Background(), me.ID, "flibber jabberwock")
	require.NoError(t, err)

	assert.True(t, out.NeedsClarification)
	assert.Equal(t, intent.OpUnknown, out.Intent.Operation)
	require.Equal(t, int64(1), f.auditCount(t, me.ID))
}

func TestProcessFailureSurfacesTypedReason(t *testing.T) {
	f := newFixture(t)
	me := f.party(t, "Dana")

	out, err := f.proc.Process(context.Background(), me.ID, "Accept check #999")
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.False(t, out.NeedsClarification)
	assert.Contains(t, out.Message, "not found")

	var row models.TransactionRecord
	require.NoError(t, f.gdb.Where("user_id = ?", me.ID).First(&row).Error)
	assert.Equal(t, models.RecordFailure, row.Status)
}

func TestProcessTokenOpsUnavailable(t *testing.T) {
	f := newFixture(t)
	me := f.party(t, "Dana")

	out, err := f.proc.Process(context.Background(), me.ID, "Buy token #3")
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "Token operations")
	require.Equal(t, int64(1), f.auditCount(t, me.ID))
}

func TestProcessBalanceQuery(t *testing.T) {
	f := newFixture(t)
	me := f.party(t, "Dana")

	out, err := f.proc.Process(context.Background(), me.ID, "What's my balance?")
	require.NoError(t, err)

	assert.True(t, out.Success)
	require.NotNil(t, out.Balance)
	assert.True(t, out.Balance.IsZero())
	assert.Contains(t, out.Message, "$0.00")
}

func TestProcessChecksQueryDirections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.party(t, "Dana")

	_, err := f.proc.Process(ctx, me.ID, "Issue a check to Alice for $10")
	require.NoError(t, err)

	out, err := f.proc.Process(ctx, me.ID, "Show my issued checks")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Len(t, out.Checks, 1)

	out, err = f.proc.Process(ctx, me.ID, "Show my incoming checks")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Empty(t, out.Checks)
}

func TestProcessHistoryQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.party(t, "Dana")

	_, err := f.proc.Process(ctx, me.ID, "Issue a check to Alice for $10")
	require.NoError(t, err)

	out, err := f.proc.Process(ctx, me.ID, "What's my transaction history?")
	require.NoError(t, err)
	assert.True(t, out.Success)
	require.Len(t, out.History, 1)
	assert.Equal(t, string(intent.OpIssueCheck), out.History[0].OperationType)
}

func TestProcessFullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dana := f.party(t, "Dana")

	out, err := f.proc.Process(ctx, dana.ID, "Issue a check to Alice for $250")
	require.NoError(t, err)
	require.True(t, out.Success)
	checkID := out.Check.ID

	alice, err := f.resolver.Lookup(ctx, "Alice")
	require.NoError(t, err)

	out, err = f.proc.Process(ctx, alice.ID, fmt.Sprintf("Accept check #%d", checkID))
	require.NoError(t, err)
	require.True(t, out.Success, out.Message)
	assert.Equal(t, models.CheckAccepted, out.Check.Status)

	out, err = f.proc.Process(ctx, alice.ID, fmt.Sprintf("Forward check #%d to Carol", checkID))
	require.NoError(t, err)
	require.True(t, out.Success, out.Message)
	assert.Equal(t, models.CheckForwarded, out.Check.Status)
	require.NotNil(t, out.Successor)
	assert.Equal(t, models.CheckPending, out.Successor.Status)
	assert.Equal(t, alice.ID, out.Successor.IssuerID)
	assert.True(t, out.Successor.Amount.Equal(decimal.NewFromInt(250)))

	// One audit row per utterance: one for Dana, two for Alice.
	assert.Equal(t, int64(1), f.auditCount(t, dana.ID))
	assert.Equal(t, int64(2), f.auditCount(t, alice.ID))
}
