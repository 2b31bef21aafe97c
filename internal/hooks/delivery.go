package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
)

// maxResponseSnippet bounds how much of a delivery response is retained for
// the hook log.
const maxResponseSnippet = 8 << 10

// deliver routes the rendered envelope to the hook's channel and returns the
// response snippet for logging, when the channel produces one.
func (d *Dispatcher) deliver(ctx context.Context, hook *meta.Hook, envelope any) (string, error) {
	switch hook.Notification.Type {
	case meta.NotificationURL:
		return d.deliverURL(ctx, hook.Notification, envelope)
	case meta.NotificationEmail:
		return "", d.deliverEmail(ctx, hook.Notification, envelope)
	default:
		return "", d.deliverPlugin(ctx, hook.Notification, envelope)
	}
}

func (d *Dispatcher) deliverURL(ctx context.Context, n meta.Notification, envelope any) (string, error) {
	p, err := decodeURLPayload(n)
	if err != nil {
		return "", err
	}

	target := render(p.Path, envelope)
	if target == "" {
		return "", errs.New(errs.ErrKindInvalidInput, "URL notification has no target url")
	}

	method := strings.ToUpper(strings.TrimSpace(render(p.Method, envelope)))
	if method == "" {
		method = http.MethodPost
	}

	var body []byte
	if p.Body != "" {
		body = []byte(render(p.Body, envelope))
	} else {
		body, err = json.Marshal(envelope)
		if err != nil {
			return "", errs.Wrap(errs.ErrKindDeliveryFailed, "encoding envelope", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(errs.ErrKindInvalidInput, "building webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	for _, h := range p.Headers {
		if h.Enabled && h.Name != "" {
			req.Header.Set(h.Name, render(h.Value, envelope))
		}
	}
	if len(p.Parameters) > 0 {
		q := req.URL.Query()
		for _, param := range p.Parameters {
			if param.Enabled && param.Name != "" {
				q.Set(param.Name, render(param.Value, envelope))
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	if err := applyAuth(req, p.Auth, envelope); err != nil {
		return "", err
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindDeliveryFailed, "delivering webhook to "+target, err)
	}
	defer resp.Body.Close()

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSnippet))
	if resp.StatusCode >= http.StatusBadRequest {
		return string(snippet), errs.Newf(errs.ErrKindDeliveryFailed,
			"webhook delivery to %s returned status %d", target, resp.StatusCode)
	}
	return string(snippet), nil
}

// applyAuth interprets the rendered auth block: basic-auth credentials or a
// bearer token, both given as a small JSON object. An empty block is a
// no-op; a block that fails to parse is invalid input.
func applyAuth(req *http.Request, auth string, envelope any) error {
	rendered := strings.TrimSpace(render(auth, envelope))
	if rendered == "" {
		return nil
	}

	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Token    string `json:"token"`
	}
	if err := json.Unmarshal([]byte(rendered), &creds); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "parsing notification auth block", err)
	}

	switch {
	case creds.Username != "":
		req.SetBasicAuth(creds.Username, creds.Password)
	case creds.Token != "":
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}
	return nil
}

func (d *Dispatcher) deliverEmail(ctx context.Context, n meta.Notification, envelope any) error {
	if d.Mailer == nil {
		return errs.New(errs.ErrKindDeliveryFailed, "no mailer configured for Email notifications")
	}

	p, err := decodeEmailPayload(n)
	if err != nil {
		return err
	}
	if p.To == "" {
		return errs.New(errs.ErrKindInvalidInput, "Email notification has no recipient")
	}

	return d.Mailer.SendMail(ctx, EmailMessage{
		To:      render(p.To, envelope),
		Subject: render(p.Subject, envelope),
		Body:    render(p.Body, envelope),
	})
}

// deliverPlugin hands the rendered payload to the registered channel plugin.
// A missing plugin is logged and skipped rather than failed, so disabling a
// plugin does not break every hook still pointing at it.
func (d *Dispatcher) deliverPlugin(ctx context.Context, n meta.Notification, envelope any) error {
	plugin := d.Plugins.Get(n.Type)
	if plugin == nil {
		d.Log.InfoWith("no plugin registered for notification channel, skipping", map[string]any{
			"channel": n.Type,
		})
		return nil
	}

	payload, _ := renderDeep(n.Payload, envelope).(map[string]any)
	return plugin.SendMessage(ctx, payload)
}
