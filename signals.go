package replica

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// Signals for replica events.
var (
	SignalLayoutChecked  = capitan.NewSignal("replica.layout.checked", "Interface layout self-test finished")
	SignalTypeDescribed  = capitan.NewSignal("replica.type.described", "Default descriptor built for a dynamic type")
	SignalTypeRegistered = capitan.NewSignal("replica.type.registered", "Descriptor registered for a type")
	SignalCloneStart     = capitan.NewSignal("replica.clone.start", "Clone operation beginning")
	SignalCloneComplete  = capitan.NewSignal("replica.clone.complete", "Clone operation finished")
	SignalGuardReleased  = capitan.NewSignal("replica.guard.released", "Allocation guard freed an uncommitted block")
	SignalHandleReleased = capitan.NewSignal("replica.handle.released", "Owned handle released its block")
)

// Keys for typed event data.
var (
	KeyTypeName = capitan.NewStringKey("type_name")
	KeyStrategy = capitan.NewStringKey("strategy")
	KeySize     = capitan.NewIntKey("size")
	KeyAlign    = capitan.NewIntKey("align")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyHandleID = capitan.NewStringKey("handle_id")
	KeyError    = capitan.NewErrorKey("error")
)

// emitLayoutChecked emits the result of the layout self-test.
func emitLayoutChecked(err error) {
	ctx := context.Background()
	if err != nil {
		capitan.Error(ctx, SignalLayoutChecked, KeyError.Field(err))
		return
	}
	capitan.Emit(ctx, SignalLayoutChecked)
}

// emitTypeDescribed emits an event when a type is first seen by the engine.
func emitTypeDescribed(ctx context.Context, d *Descriptor) {
	capitan.Emit(ctx, SignalTypeDescribed, descriptorFields(d)...)
}

// emitTypeRegistered emits an event when a type is registered explicitly.
func emitTypeRegistered(ctx context.Context, d *Descriptor) {
	capitan.Emit(ctx, SignalTypeRegistered, descriptorFields(d)...)
}

// emitCloneStart emits an event when a clone begins.
func emitCloneStart(ctx context.Context, d *Descriptor) {
	capitan.Emit(ctx, SignalCloneStart,
		KeyTypeName.Field(d.Name),
		KeyStrategy.Field(string(d.Strategy)),
	)
}

// emitCloneComplete emits an event when a clone finishes.
func emitCloneComplete(ctx context.Context, d *Descriptor, duration time.Duration, err error) {
	fields := append(descriptorFields(d), KeyDuration.Field(duration))
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCloneComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalCloneComplete, fields...)
	}
}

// emitGuardReleased emits an event when a guard frees a block on a failure path.
func emitGuardReleased(ctx context.Context, l Layout) {
	name := ""
	if l.Type != nil {
		name = l.Type.String()
	}
	capitan.Emit(ctx, SignalGuardReleased,
		KeyTypeName.Field(name),
		KeySize.Field(int(l.Size)),
		KeyAlign.Field(int(l.Align)),
	)
}

// emitHandleReleased emits an event when an owned handle is released.
func emitHandleReleased(ctx context.Context, id uuid.UUID, d *Descriptor, err error) {
	fields := []capitan.Field{
		KeyHandleID.Field(id.String()),
		KeyTypeName.Field(d.Name),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalHandleReleased, fields...)
	} else {
		capitan.Emit(ctx, SignalHandleReleased, fields...)
	}
}

func descriptorFields(d *Descriptor) []capitan.Field {
	return []capitan.Field{
		KeyTypeName.Field(d.Name),
		KeyStrategy.Field(string(d.Strategy)),
		KeySize.Field(int(d.Layout.Size)),
		KeyAlign.Field(int(d.Layout.Align)),
	}
}
