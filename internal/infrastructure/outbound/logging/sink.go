package logging

import (
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
)

var _ ports.Sink = Handlers{}

// Handlers is a Sink built from optional callbacks. Nil callbacks are no-ops.
type Handlers struct {
	OnSend  func(ports.Event)
	OnSent  func(ports.Event)
	OnError func(ports.Event)
	OnDebug func(ports.Event)
}

func (h Handlers) Send(e ports.Event) {
	if h.OnSend != nil {
		h.OnSend(e)
	}
}

func (h Handlers) Sent(e ports.Event) {
	if h.OnSent != nil {
		h.OnSent(e)
	}
}

func (h Handlers) Error(e ports.Event) {
	if h.OnError != nil {
		h.OnError(e)
	}
}

func (h Handlers) Debug(e ports.Event) {
	if h.OnDebug != nil {
		h.OnDebug(e)
	}
}

// Merge returns h with every non-nil callback of other laid over it.
func (h Handlers) Merge(other Handlers) Handlers {
	if other.OnSend != nil {
		h.OnSend = other.OnSend
	}
	if other.OnSent != nil {
		h.OnSent = other.OnSent
	}
	if other.OnError != nil {
		h.OnError = other.OnError
	}
	if other.OnDebug != nil {
		h.OnDebug = other.OnDebug
	}
	return h
}

// Quiet returns handlers that drop every event.
func Quiet() Handlers {
	return Handlers{}
}

// LogHandlers writes events through logger: send/sent at info, errors at
// error, per-candidate match traces at debug.
func LogHandlers(logger ports.Logger) Handlers {
	return Handlers{
		OnSend: func(e ports.Event) {
			logger.Info("SEND"+tag(e)+": "+e.Method+" "+e.URI, attrs(e)...)
		},
		OnSent: func(e ports.Event) {
			logger.Info("SENT"+tag(e)+": "+e.Method+" "+e.URI, append(attrs(e), "elapsed", e.Elapsed)...)
		},
		OnError: func(e ports.Event) {
			args := append(attrs(e), "elapsed", e.Elapsed)
			if e.Message != "" {
				args = append(args, "detail", e.Message)
			}
			if e.Err != nil {
				args = append(args, "error", e.Err)
			}
			logger.Error("ERROR"+tag(e)+": "+e.Method+" "+e.URI, args...)
		},
		OnDebug: func(e ports.Event) {
			logger.Debug("DEBUG"+tag(e)+": "+e.Method+" "+e.URI, append(attrs(e), "detail", e.Message)...)
		},
	}
}

func tag(e ports.Event) string {
	if e.Scenario == "" {
		return ""
	}
	return " [" + e.Scenario + "]"
}

func attrs(e ports.Event) []any {
	if e.Activation == "" {
		return nil
	}
	return []any{"activation", e.Activation}
}
