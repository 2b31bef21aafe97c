package hooks

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
)

// Param is one header or query parameter entry of a URL notification.
// Disabled entries are kept in the stored payload but never sent.
type Param struct {
	Name    string `mapstructure:"name"`
	Value   string `mapstructure:"value"`
	Enabled bool   `mapstructure:"enabled"`
}

// URLPayload is the channel configuration of a URL notification. Every
// string field is a template rendered against the envelope before use.
type URLPayload struct {
	Method     string  `mapstructure:"method"`
	Path       string  `mapstructure:"path"`
	Headers    []Param `mapstructure:"headers"`
	Parameters []Param `mapstructure:"parameters"`

	// Body is an optional template for the request body. When empty the
	// envelope itself is sent as JSON.
	Body string `mapstructure:"body"`

	// Auth is an optional JSON template carrying basic-auth credentials or
	// a bearer token.
	Auth string `mapstructure:"auth"`
}

// EmailPayload is the channel configuration of an Email notification.
type EmailPayload struct {
	To      string `mapstructure:"to"`
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
}

func decodeURLPayload(n meta.Notification) (*URLPayload, error) {
	p := &URLPayload{}
	if err := mapstructure.Decode(n.Payload, p); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "decoding URL notification payload", err)
	}
	return p, nil
}

func decodeEmailPayload(n meta.Notification) (*EmailPayload, error) {
	p := &EmailPayload{}
	if err := mapstructure.Decode(n.Payload, p); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "decoding Email notification payload", err)
	}
	return p, nil
}
