package printer

import (
	"context"
	"fmt"
)

// Observer is told about every state change of an attempt. failure is set
// only when to is StateFailed.
type Observer func(from, to State, failure *Failure)

// Attempt drives one print from Idle to a terminal state. An Attempt is
// single use; build a new one for every print.
type Attempt struct {
	channel        Channel
	filter         DiscoveryFilter
	characteristic string
	observer       Observer

	state  State
	trail  []State
	device *Device
}

func NewAttempt(channel Channel, filter DiscoveryFilter, characteristic string, observer Observer) *Attempt {
	if characteristic == "" {
		characteristic = WriteCharacteristicUUID
	}
	if filter.ServiceUUID == "" {
		filter.ServiceUUID = ServiceUUID
	}
	return &Attempt{
		channel:        channel,
		filter:         filter,
		characteristic: characteristic,
		observer:       observer,
		state:          StateIdle,
		trail:          []State{StateIdle},
	}
}

// State returns the current state.
func (a *Attempt) State() State { return a.state }

// Run sends payload to the first printer the channel selects. The returned
// Result always carries a terminal state. Any session the channel opened is
// released before Run returns; a failed release is reported in
// Result.ReleaseErr. A ctx that is already done fails the attempt before the
// channel is touched.
func (a *Attempt) Run(ctx context.Context, payload []byte) (res Result) {
	if a.state.Terminal() {
		return a.result(&Failure{Kind: KindConnection, Err: errAttemptUsed})
	}
	if err := ctx.Err(); err != nil {
		return a.fail(classify(ctx, KindCancelled, err))
	}

	if err := a.channel.Available(); err != nil {
		return a.fail(&Failure{Kind: KindUnsupportedPlatform, Err: err})
	}
	defer func() {
		if err := a.channel.Release(); err != nil {
			res.ReleaseErr = err
		}
	}()

	a.transition(StateDiscovering, nil)
	device, err := a.channel.Discover(ctx, a.filter)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return a.fail(classify(ctx, KindNoDeviceSelected, err))
	}
	a.device = &device

	a.transition(StateConnecting, nil)
	if err := a.channel.Connect(ctx, device); err != nil {
		return a.fail(classify(ctx, KindConnection, err))
	}
	if err := a.channel.LocateWriteTarget(ctx, a.filter.ServiceUUID, a.characteristic); err != nil {
		return a.fail(classify(ctx, KindConnection, err))
	}
	a.transition(StateReady, nil)

	if err := ctx.Err(); err != nil {
		return a.fail(classify(ctx, KindCancelled, err))
	}
	a.transition(StateTransmitting, nil)
	if err := a.channel.Write(ctx, payload); err != nil {
		return a.fail(classify(ctx, KindTransmission, err))
	}
	a.transition(StateSucceeded, nil)

	res = a.result(nil)
	res.Bytes = len(payload)
	return res
}

func (a *Attempt) transition(to State, f *Failure) {
	from := a.state
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("printer: invalid transition %s -> %s", from, to))
	}
	a.state = to
	a.trail = append(a.trail, to)
	if a.observer != nil {
		a.observer(from, to, f)
	}
}

func (a *Attempt) fail(f *Failure) Result {
	a.transition(StateFailed, f)
	return a.result(f)
}

func (a *Attempt) result(f *Failure) Result {
	res := Result{
		State:  a.state,
		Device: a.device,
		Trail:  append([]State(nil), a.trail...),
	}
	if f != nil {
		res.State = StateFailed
		res.Reason = f.Kind
		res.Message = f.CashierMessage()
		res.Err = f
	}
	return res
}
