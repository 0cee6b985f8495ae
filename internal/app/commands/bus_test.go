package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renameCommand struct{ To string }

func (renameCommand) Key() string { return "test.rename" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.rename" }

func TestDispatch(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, renameCommand{}.Key(), HandlerFunc[renameCommand, string](func(_ context.Context, c renameCommand) (string, error) {
		return "renamed to " + c.To, nil
	}))

	got, err := Dispatch[renameCommand, string](context.Background(), bus, renameCommand{To: "Villa"})
	require.NoError(t, err)
	assert.Equal(t, "renamed to Villa", got)
	assert.Equal(t, []string{"test.rename"}, bus.Keys())

	_, err = Dispatch[renameCommand, int](context.Background(), bus, renameCommand{})
	assert.ErrorIs(t, err, ErrResultType)

	_, err = bus.Dispatch(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = Dispatch[renameCommand, string](context.Background(), nil, renameCommand{})
	assert.ErrorIs(t, err, ErrNilBus)

	_, err = NewInMemoryBus().Dispatch(context.Background(), renameCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestRegisterHandler_DuplicatePanics(t *testing.T) {
	bus := NewInMemoryBus()
	h := HandlerFunc[renameCommand, string](func(context.Context, renameCommand) (string, error) { return "", nil })
	RegisterHandler(bus, "k", h)
	assert.Panics(t, func() { RegisterHandler(bus, "k", h) })
	assert.Panics(t, func() { RegisterHandler(bus, "", h) })
}
