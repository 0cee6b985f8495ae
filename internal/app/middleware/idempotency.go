package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"milhouse/internal/app/commands"
)

// IdempotentCommand carries the client's Idempotency-Key. ResultPrototype
// returns a pointer the stored result is decoded into on replay.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	ResultPrototype() any
}

type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONResultCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }

var errMissingPrototype = errors.New("middleware: idempotent command has no result prototype")

type idempotency struct {
	store IdempotencyStore
	codec ResultCodec
	now   func() time.Time
}

// Idempotency answers a repeated key with the result recorded for the first
// successful run. Keys are scoped by command, and failures are not recorded.
func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	m := idempotency{store: store, codec: codec, now: time.Now}
	return func(next commands.Bus) commands.Bus {
		return DispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || idCmd.IdempotencyKey() == "" {
				return next.Dispatch(ctx, cmd)
			}
			key := cmd.Key() + ":" + idCmd.IdempotencyKey()

			if res, found, err := m.replay(ctx, key, idCmd); found || err != nil {
				return res, err
			}
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := m.remember(ctx, key, res); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}

func (m idempotency) replay(ctx context.Context, key string, cmd IdempotentCommand) (any, bool, error) {
	rec, found, err := m.store.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, true, errMissingPrototype
	}
	if len(rec.Payload) > 0 {
		if err := m.codec.Decode(rec.Payload, proto); err != nil {
			return nil, true, fmt.Errorf("middleware: decode replay for %s: %w", key, err)
		}
	}
	return deref(proto), true, nil
}

func (m idempotency) remember(ctx context.Context, key string, res any) error {
	rec := IdempotencyRecord{Key: key, OccurredAt: m.now().UTC()}
	if res != nil {
		payload, err := m.codec.Encode(res)
		if err != nil {
			return err
		}
		rec.Payload = payload
	}
	return m.store.Save(ctx, rec)
}

// deref turns the decoded *T into T so the typed Dispatch assertion matches.
func deref(proto any) any {
	if rv := reflect.ValueOf(proto); rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return proto
}
