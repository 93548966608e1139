package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/lumabank/chequer/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type engineFixture struct {
	gdb      *gorm.DB
	resolver *Resolver
	engine   *Engine
}

func newEngineFixture(t *testing.T) engineFixture {
	t.Helper()
	gdb := testDB(t)
	resolver := NewResolver(gdb, nil, nil)
	return engineFixture{
		gdb:      gdb,
		resolver: resolver,
		engine:   NewEngine(gdb, resolver, nil),
	}
}

func (f engineFixture) party(t *testing.T, name string) models.Entity {
	t.Helper()
	ent, err := f.resolver.ResolveOrCreate(context.Background(), name)
	require.NoError(t, err)
	return ent
}

func TestIssueCreatesPendingCheck(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	issuer := f.party(t, "Alice")

	before := time.Now().Unix()
	c, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(500), 30)
	require.NoError(t, err)

	assert.Equal(t, models.CheckPending, c.Status)
	assert.Equal(t, issuer.ID, c.IssuerID)
	assert.True(t, c.Amount.Equal(decimal.NewFromInt(500)))
	assert.GreaterOrEqual(t, c.IssuedAt, before)
	assert.Equal(t, c.IssuedAt+30*secondsPerDay, c.MaturityDate)

	// Payee came into existence as part of the issue.
	bob, err := f.resolver.Lookup(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, c.PayeeID)
	assert.Equal(t, int64(1), bob.TransactionCount)
	assert.True(t, bob.TotalVolume.Equal(decimal.NewFromInt(500)))
}

func TestIssueRejectsNonPositiveAmount(t *testing.T) {
	f := newEngineFixture(t)
	issuer := f.party(t, "Alice")

	var ve *ValidationError
	_, err := f.engine.Issue(context.Background(), issuer.ID, "Bob", decimal.Zero, 30)
	require.ErrorAs(t, err, &ve)

	_, err = f.engine.Issue(context.Background(), issuer.ID, "Bob", decimal.NewFromInt(-5), 30)
	require.ErrorAs(t, err, &ve)
}

func TestIssueRejectsSelfPay(t *testing.T) {
	f := newEngineFixture(t)
	issuer := f.party(t, "Alice")

	_, err := f.engine.Issue(context.Background(), issuer.ID, "alice", decimal.NewFromInt(10), 30)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestIssueUnknownIssuer(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.Issue(context.Background(), 9999, "Bob", decimal.NewFromInt(10), 30)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestAcceptPendingCheck(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	issuer := f.party(t, "Alice")

	c, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(200), 30)
	require.NoError(t, err)

	got, err := f.engine.Accept(ctx, c.PayeeID, CheckRef{ID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, models.CheckAccepted, got.Status)
	assert.True(t, got.Status.Terminal())

	// Terminal states never transition again.
	_, err = f.engine.Accept(ctx, c.PayeeID, CheckRef{ID: c.ID})
	var se *StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, c.ID, se.CheckID)
}

func TestDenyPendingCheck(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	issuer := f.party(t, "Alice")

	c, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(200), 30)
	require.NoError(t, err)

	got, err := f.engine.Deny(ctx, c.PayeeID, CheckRef{ID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, models.CheckDenied, got.Status)

	_, err = f.engine.Accept(ctx, c.PayeeID, CheckRef{ID: c.ID})
	var se *StateError
	require.ErrorAs(t, err, &se)
}

func TestAcceptRequiresAddressee(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	issuer := f.party(t, "Alice")
	stranger := f.party(t, "Mallory")

	c, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(200), 30)
	require.NoError(t, err)

	_, err = f.engine.Accept(ctx, stranger.ID, CheckRef{ID: c.ID})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	// The check is untouched.
	var row models.Check
	require.NoError(t, f.gdb.First(&row, c.ID).Error)
	assert.Equal(t, models.CheckPending, row.Status)
}

func TestAcceptByIssuerNamePicksNewest(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	issuer := f.party(t, "Alice")

	older, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(10), 30)
	require.NoError(t, err)
	newer, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(20), 30)
	require.NoError(t, err)

	got, err := f.engine.Accept(ctx, newer.PayeeID, CheckRef{Issuer: "alice"})
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	var row models.Check
	require.NoError(t, f.gdb.First(&row, older.ID).Error)
	assert.Equal(t, models.CheckPending, row.Status)
}

func TestAcceptMissingReference(t *testing.T) {
	f := newEngineFixture(t)
	payee := f.party(t, "Bob")

	_, err := f.engine.Accept(context.Background(), payee.ID, CheckRef{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestForwardAcceptedCheck(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	issuer := f.party(t, "Alice")

	c, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(300), 30)
	require.NoError(t, err)
	_, err = f.engine.Accept(ctx, c.PayeeID, CheckRef{ID: c.ID})
	require.NoError(t, err)

	orig, succ, err := f.engine.Forward(ctx, c.PayeeID, CheckRef{ID: c.ID}, "Carol")
	require.NoError(t, err)

	assert.Equal(t, models.CheckForwarded, orig.Status)
	assert.Equal(t, models.CheckPending, succ.Status)
	assert.Equal(t, c.PayeeID, succ.IssuerID)
	assert.True(t, succ.Amount.Equal(orig.Amount))
	assert.Equal(t, orig.MaturityDate, succ.MaturityDate)

	carol, err := f.resolver.Lookup(ctx, "Carol")
	require.NoError(t, err)
	assert.Equal(t, carol.ID, succ.PayeeID)
}

func TestForwardRequiresAccepted(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	issuer := f.party(t, "Alice")

	c, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(300), 30)
	require.NoError(t, err)

	_, _, err = f.engine.Forward(ctx, c.PayeeID, CheckRef{ID: c.ID}, "Carol")
	var se *StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.CheckPending, se.Status)
}

func TestForwardToSelf(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	issuer := f.party(t, "Alice")

	c, err := f.engine.Issue(ctx, issuer.ID, "Bob", decimal.NewFromInt(300), 30)
	require.NoError(t, err)
	_, err = f.engine.Accept(ctx, c.PayeeID, CheckRef{ID: c.ID})
	require.NoError(t, err)

	_, _, err = f.engine.Forward(ctx, c.PayeeID, CheckRef{ID: c.ID}, "Bob")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestListChecksDirections(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	alice := f.party(t, "Alice")
	bob := f.party(t, "Bob")

	_, err := f.engine.Issue(ctx, alice.ID, "Bob", decimal.NewFromInt(10), 30)
	require.NoError(t, err)
	_, err = f.engine.Issue(ctx, bob.ID, "Alice", decimal.NewFromInt(20), 30)
	require.NoError(t, err)

	issued, err := f.engine.ListChecks(ctx, alice.ID, DirectionIssued)
	require.NoError(t, err)
	require.Len(t, issued, 1)
	assert.Equal(t, alice.ID, issued[0].IssuerID)

	incoming, err := f.engine.ListChecks(ctx, alice.ID, DirectionIncoming)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, alice.ID, incoming[0].PayeeID)

	all, err := f.engine.ListChecks(ctx, alice.ID, DirectionAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Newest first.
	assert.GreaterOrEqual(t, all[0].ID, all[1].ID)

	_, err = f.engine.ListChecks(ctx, alice.ID, Direction("SIDEWAYS"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestBalance(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	alice := f.party(t, "Alice")

	bal, err := f.engine.Balance(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	_, err = f.engine.Balance(ctx, 9999)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Kind)
}
