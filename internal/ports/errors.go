package ports

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ErrNotConfigured: aucune clé d'accès à l'API amont. Renvoyée avant tout appel réseau.
var ErrNotConfigured = errors.New("youtube api key not configured")

var ErrChannelNotFound = errors.New("channel not found")

// UpstreamError enveloppe un échec de l'API amont (statut non-2xx ou réponse invalide).
type UpstreamError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, msg)
	}
	return e.Op + ": " + msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }
