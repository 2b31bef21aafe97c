package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smndtrl/nocodb/internal/config"
	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/filters"
	"github.com/smndtrl/nocodb/internal/logger"
	"github.com/smndtrl/nocodb/internal/meta"
)

// Dispatcher runs hook invocations end to end: condition gating, envelope
// construction, channel delivery and invocation logging.
type Dispatcher struct {
	Store   meta.Store
	Eval    *filters.Evaluator
	Client  *http.Client
	Mailer  Mailer
	Plugins *PluginRegistry
	Logs    LogSink
	Config  *config.Config
	Log     *logger.Logger

	// Signer, when set, adds time-limited download URLs to attachment cells
	// before delivery.
	Signer URLSigner

	Now func() time.Time
}

// NewDispatcher wires a dispatcher with defaults derived from cfg. Callers
// replace the channel fields (Mailer, Plugins, Logs, Signer) as needed.
func NewDispatcher(store meta.Store, cfg *config.Config) *Dispatcher {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Dispatcher{
		Store:   store,
		Eval:    filters.NewEvaluator(store),
		Client:  NewHTTPClient(time.Duration(cfg.HookTimeoutSeconds)*time.Second, cfg.AllowLocalHooks),
		Plugins: NewPluginRegistry(),
		Logs:    NewMemLogSink(),
		Config:  cfg,
		Log:     logger.Nop(),
		Now:     time.Now,
	}
}

// InvokeParams carries one hook invocation.
type InvokeParams struct {
	Context meta.Context
	Dialect meta.DialectType

	Hook  *meta.Hook
	Model *meta.Model

	// PrevData and NewData accept a single row map or a slice of rows.
	PrevData any
	NewData  any

	User *meta.User

	// TestFilters override the stored condition tree for test invocations.
	TestFilters []*meta.Filter
	IsTestCall  bool

	// ThrowOnFailure surfaces delivery errors to the caller instead of only
	// logging them. Test calls always surface errors.
	ThrowOnFailure bool
}

// Invoke runs one hook invocation. A hook whose condition does not match is
// skipped silently; a delivery failure is logged per the automation log
// level and surfaced only for test calls or ThrowOnFailure.
func (d *Dispatcher) Invoke(ctx context.Context, p InvokeParams) error {
	start := d.Now()
	hook := p.Hook

	// Bulk operations deliver over URL only; other channels cannot carry
	// multi-row payloads.
	if hook.Operation.IsBulk() && hook.Notification.Type != meta.NotificationURL {
		return nil
	}

	rows := asRows(p.NewData)
	prevRows := asRows(p.PrevData)

	condition, err := d.activeFilters(ctx, p)
	if err != nil {
		return d.finish(ctx, p, start, nil, condition, "", err)
	}

	if len(condition) > 0 {
		fire, matchedRows, matchedPrev, evalErr := d.applyCondition(ctx, p, condition, rows, prevRows)
		if evalErr != nil {
			return d.finish(ctx, p, start, nil, condition, "", evalErr)
		}
		if !fire {
			return nil
		}
		rows, prevRows = matchedRows, matchedPrev
	}

	expandAttachments(ctx, d.Signer, p.Model, rows)
	envelope := buildEnvelope(hook, p.Model, prevRows, rows)

	response, err := d.deliver(ctx, hook, envelope)
	return d.finish(ctx, p, start, envelope, condition, response, err)
}

// activeFilters resolves the condition tree for this invocation: explicit
// test filters win, otherwise the stored tree when the hook's condition
// gate is enabled.
func (d *Dispatcher) activeFilters(ctx context.Context, p InvokeParams) ([]*meta.Filter, error) {
	if p.IsTestCall && len(p.TestFilters) > 0 {
		return p.TestFilters, nil
	}
	if !p.Hook.Condition {
		return nil, nil
	}
	if len(p.Hook.Filters) > 0 {
		return p.Hook.Filters, nil
	}
	return d.Store.GetHookFilters(ctx, p.Context, p.Hook.ID)
}

// applyCondition gates the invocation on the condition tree.
//
// Single-row updates fire only on a false-to-true transition: a row whose
// previous state already matched has been notified before and is skipped.
// Multi-row invocations narrow the row set to the matching rows and fire
// when any remain.
func (d *Dispatcher) applyCondition(ctx context.Context, p InvokeParams, condition []*meta.Filter, rows, prevRows []map[string]any) (bool, []map[string]any, []map[string]any, error) {
	if len(rows) <= 1 && !p.Hook.Operation.IsBulk() {
		var row map[string]any
		if len(rows) == 1 {
			row = rows[0]
		}

		v, err := d.Eval.Evaluate(ctx, p.Context, condition, row, p.Dialect)
		if err != nil {
			return false, nil, nil, err
		}
		if !v.Bool() {
			return false, nil, nil, nil
		}

		if len(prevRows) == 1 {
			prev, err := d.Eval.Evaluate(ctx, p.Context, condition, prevRows[0], p.Dialect)
			if err != nil {
				return false, nil, nil, err
			}
			if prev.Bool() {
				return false, nil, nil, nil
			}
		}
		return true, rows, prevRows, nil
	}

	aligned := len(prevRows) == len(rows)
	var matched, matchedPrev []map[string]any
	for i, row := range rows {
		v, err := d.Eval.Evaluate(ctx, p.Context, condition, row, p.Dialect)
		if err != nil {
			return false, nil, nil, err
		}
		if !v.Bool() {
			continue
		}
		if aligned {
			prev, err := d.Eval.Evaluate(ctx, p.Context, condition, prevRows[i], p.Dialect)
			if err != nil {
				return false, nil, nil, err
			}
			if prev.Bool() {
				continue
			}
			matchedPrev = append(matchedPrev, prevRows[i])
		}
		matched = append(matched, row)
	}
	if len(matched) == 0 {
		return false, nil, nil, nil
	}
	if !aligned {
		matchedPrev = prevRows
	}
	return true, matched, matchedPrev, nil
}

// finish handles the invocation tail: log-level gating, SSRF message
// rewriting and failure surfacing. Log writes are best-effort.
func (d *Dispatcher) finish(ctx context.Context, p InvokeParams, start time.Time, envelope any, condition []*meta.Filter, response string, deliveryErr error) error {
	if errors.Is(deliveryErr, ErrPrivateAddress) {
		msg := "webhook deliveries to private networks are blocked"
		if d.Config.Edition == config.EditionCommunity {
			msg += "; set NC_ALLOW_LOCAL_HOOKS=true to allow them"
		}
		deliveryErr = errs.New(errs.ErrKindDeliveryFailed, msg)
	}

	d.writeLog(ctx, p, start, envelope, condition, response, deliveryErr)

	if deliveryErr == nil {
		return nil
	}

	d.Log.ErrorWith("hook delivery failed", deliveryErr, map[string]any{
		"hook_id":   p.Hook.ID,
		"operation": string(p.Hook.Operation),
		"channel":   p.Hook.Notification.Type,
	})

	if p.ThrowOnFailure || p.IsTestCall {
		return deliveryErr
	}
	return nil
}

func (d *Dispatcher) writeLog(ctx context.Context, p InvokeParams, start time.Time, envelope any, condition []*meta.Filter, response string, deliveryErr error) {
	switch d.Config.AutomationLogLevel {
	case config.LogLevelOff:
		return
	case config.LogLevelAll:
	default:
		if deliveryErr == nil {
			return
		}
	}

	elapsed := float64(d.Now().Sub(start)) / float64(time.Millisecond)

	entry := &meta.HookLog{
		ID:            uuid.NewString(),
		HookID:        p.Hook.ID,
		Type:          p.Hook.Notification.Type,
		Event:         string(p.Hook.Event),
		Operation:     string(p.Hook.Operation),
		TestCall:      p.IsTestCall,
		Payload:       marshalJSON(envelope),
		Notification:  marshalJSON(p.Hook.Notification),
		ExecutionTime: fmt.Sprintf("%.3f", elapsed),
		Response:      response,
	}
	if p.User != nil {
		entry.TriggeredBy = p.User.Email
	}
	if len(condition) > 0 {
		entry.Conditions = marshalJSON(condition)
	}
	if deliveryErr != nil {
		// Failed invocations re-serialize the condition tree rooted in a
		// single group, so the log column holds one object.
		if len(condition) > 0 {
			entry.Conditions = marshalJSON(&meta.Filter{IsGroup: true, Children: condition})
		}
		entry.ErrorCode = errKindOf(deliveryErr)
		entry.ErrorMessage = deliveryErr.Error()
		entry.Error = deliveryErr.Error()
	}

	if err := d.Logs.Insert(ctx, p.Context, entry); err != nil {
		d.Log.ErrorWith("hook log write failed", err, map[string]any{"hook_id": p.Hook.ID})
	}
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func errKindOf(err error) string {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return ""
}
