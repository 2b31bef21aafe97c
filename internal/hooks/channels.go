package hooks

import (
	"context"
	"sync"
)

// EmailMessage is a rendered email notification ready for transport.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends rendered email notifications. Implementations wrap whatever
// transport the deployment uses (SMTP relay, provider API).
type Mailer interface {
	SendMail(ctx context.Context, msg EmailMessage) error
}

// Plugin delivers a notification over a third-party channel (Slack, Teams,
// Discord and the like). The payload is the hook's notification payload
// with all templates rendered.
type Plugin interface {
	SendMessage(ctx context.Context, payload map[string]any) error
}

// PluginRegistry maps notification type names to plugin channels. Safe for
// concurrent use.
type PluginRegistry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{plugins: make(map[string]Plugin)}
}

// Register binds a plugin to a notification type, replacing any previous
// binding for the same name.
func (r *PluginRegistry) Register(name string, p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[name] = p
}

// Get returns the plugin bound to name, or nil.
func (r *PluginRegistry) Get(name string) Plugin {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins[name]
}
