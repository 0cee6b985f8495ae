package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/middleware"
	appoutbox "milhouse/internal/app/outbox"
	"milhouse/internal/app/queries"
	"milhouse/internal/infra/storage/memory"
)

type createThing struct {
	Name string
	Req  string
}

func (createThing) Key() string              { return "things.create" }
func (c createThing) IdempotencyKey() string { return c.Req }
func (createThing) ResultPrototype() any     { return &thing{} }

type thing struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type counterHandler struct {
	calls int
	fail  error
}

func (h *counterHandler) Handle(_ context.Context, cmd createThing) (thing, error) {
	h.calls++
	if h.fail != nil {
		return thing{}, h.fail
	}
	return thing{ID: h.calls, Name: cmd.Name}, nil
}

func newBus(h *counterHandler) *commands.InMemoryBus {
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, createThing{}.Key(), h)
	return bus
}

func TestIdempotency_ReplaysStoredResult(t *testing.T) {
	h := &counterHandler{}
	bus := middleware.ChainCommands(newBus(h), middleware.Idempotency(memory.NewIdempotencyStore(), nil))
	ctx := context.Background()

	first, err := commands.Dispatch[createThing, thing](ctx, bus, createThing{Name: "a", Req: "k1"})
	require.NoError(t, err)
	second, err := commands.Dispatch[createThing, thing](ctx, bus, createThing{Name: "b", Req: "k1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.calls)

	third, err := commands.Dispatch[createThing, thing](ctx, bus, createThing{Name: "c"})
	require.NoError(t, err)
	assert.Equal(t, 2, third.ID, "commands without a key always run")
}

func TestIdempotency_FailuresAreNotStored(t *testing.T) {
	h := &counterHandler{fail: errors.New("boom")}
	bus := middleware.ChainCommands(newBus(h), middleware.Idempotency(memory.NewIdempotencyStore(), nil))
	ctx := context.Background()

	_, err := commands.Dispatch[createThing, thing](ctx, bus, createThing{Req: "k"})
	require.Error(t, err)

	h.fail = nil
	res, err := commands.Dispatch[createThing, thing](ctx, bus, createThing{Name: "retry", Req: "k"})
	require.NoError(t, err)
	assert.Equal(t, "retry", res.Name)
	assert.Equal(t, 2, h.calls)
}

func TestValidation_StopsBeforeHandler(t *testing.T) {
	h := &counterHandler{}
	errInvalid := errors.New("invalid")
	bus := middleware.ChainCommands(newBus(h), middleware.Validation(middleware.ValidatorFunc(func(_ context.Context, msg any) error {
		if c, ok := msg.(createThing); ok && c.Name == "" {
			return errInvalid
		}
		return nil
	})))

	_, err := commands.Dispatch[createThing, thing](context.Background(), bus, createThing{})
	assert.ErrorIs(t, err, errInvalid)
	assert.Zero(t, h.calls)

	_, err = commands.Dispatch[createThing, thing](context.Background(), bus, createThing{Name: "ok"})
	assert.NoError(t, err)
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, appoutbox.EventRecord) error {
	p.calls++
	return errors.New("broker down")
}

type recordingHandler struct {
	box appoutbox.Outbox
}

func (h recordingHandler) Handle(ctx context.Context, cmd createThing) (thing, error) {
	return thing{ID: 1, Name: cmd.Name}, h.box.Add(ctx, appoutbox.EventRecord{ID: "e1", Name: "thing.created"})
}

func TestOutboxFlush_LogsFailureAndKeepsResult(t *testing.T) {
	pub := &failingPublisher{}
	box := memory.NewOutbox(pub)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, createThing{}.Key(), recordingHandler{box: box})
	bus := middleware.ChainCommands(base, middleware.OutboxFlush(box, logger))

	res, err := commands.Dispatch[createThing, thing](context.Background(), bus, createThing{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", res.Name)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, 1, box.Pending())
	assert.Contains(t, logs.String(), "outbox flush failed")
}

func TestLogging_PassesResultsThrough(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := &counterHandler{}
	bus := middleware.ChainCommands(newBus(h), middleware.CommandLogging(logger))
	res, err := commands.Dispatch[createThing, thing](context.Background(), bus, createThing{Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, "n", res.Name)
	assert.Contains(t, logs.String(), "things.create")

	qbus := queries.NewInMemoryBus()
	queries.RegisterHandler(qbus, pingQuery{}.Key(), queries.HandlerFunc[pingQuery, string](func(context.Context, pingQuery) (string, error) {
		return "pong", nil
	}))
	chained := middleware.ChainQueries(qbus, middleware.QueryLogging(logger))
	out, err := queries.Ask[pingQuery, string](context.Background(), chained, pingQuery{})
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
	assert.Contains(t, logs.String(), "query handled")
}

type pingQuery struct{}

func (pingQuery) Key() string { return "ping" }
