package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

// Store est le miroir en mémoire, partagé par tout le processus, du stockage durable.
// Les erreurs de persistance sont journalisées et jamais remontées à l'appelant.
type Store struct {
	logger zerolog.Logger
	repo   ports.KVRepository
	bus    ports.EventBus

	mu     sync.RWMutex
	mirror map[string][]byte
}

func NewStore(logger zerolog.Logger, repo ports.KVRepository, bus ports.EventBus) *Store {
	return &Store{logger: logger, repo: repo, bus: bus, mirror: map[string][]byte{}}
}

type storeUpdate struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Load relit la copie durable. found=false si la clé est absente ou illisible.
func (s *Store) Load(ctx context.Context, key string) ([]byte, bool) {
	b, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Warn().Err(err).Str("key", key).Msg("store read failed")
		}
		return nil, false
	}
	s.mu.Lock()
	s.mirror[key] = b
	s.mu.Unlock()
	return b, true
}

func (s *Store) Cached(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.mirror[key]
	return b, ok
}

// Save met à jour le miroir tout de suite puis la copie durable (best-effort).
func (s *Store) Save(ctx context.Context, key string, value []byte) {
	s.mu.Lock()
	s.mirror[key] = value
	s.mu.Unlock()

	if err := s.repo.Put(ctx, key, value); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("store write failed")
	}
	publish(s.bus, TopicStoreUpdated, storeUpdate{Key: key, Value: value})
}

// Persisted est une valeur typée rangée sous une clé du Store.
// Get renvoie la valeur par défaut tant que Reload n'a rien chargé.
type Persisted[T any] struct {
	store *Store
	key   string
	def   T

	mu  sync.Mutex
	cur T
}

func NewPersisted[T any](store *Store, key string, def T) *Persisted[T] {
	return &Persisted[T]{store: store, key: key, def: def, cur: def}
}

func (p *Persisted[T]) Key() string { return p.key }

func (p *Persisted[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}

func (p *Persisted[T]) Set(ctx context.Context, v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setLocked(ctx, v)
}

// Update applique fn sous verrou (lecture-modification-écriture).
// fn ne doit pas modifier sa valeur d'entrée en place.
func (p *Persisted[T]) Update(ctx context.Context, fn func(T) T) T {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := fn(p.cur)
	p.setLocked(ctx, next)
	return next
}

func (p *Persisted[T]) setLocked(ctx context.Context, v T) {
	p.cur = v
	b, err := json.Marshal(v)
	if err != nil {
		p.store.logger.Error().Err(err).Str("key", p.key).Msg("store encode failed")
		return
	}
	p.store.Save(ctx, p.key, b)
}

// Reload écrase la valeur en mémoire avec la copie durable, si elle existe et se décode.
func (p *Persisted[T]) Reload(ctx context.Context) T {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.store.Load(ctx, p.key)
	if !ok {
		return p.cur
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		p.store.logger.Warn().Err(err).Str("key", p.key).Msg("store value unreadable, keeping current")
		return p.cur
	}
	p.cur = v
	return v
}

// Subscribe reçoit chaque valeur enregistrée sous la clé (y compris par d'autres Persisted).
func (p *Persisted[T]) Subscribe() (<-chan T, func()) {
	out := make(chan T, 8)
	if p.store.bus == nil {
		close(out)
		return out, func() {}
	}
	events, cancel := p.store.bus.Subscribe(TopicStoreUpdated)
	go func() {
		defer close(out)
		for evt := range events {
			var u storeUpdate
			if err := json.Unmarshal(evt.Payload, &u); err != nil || u.Key != p.key {
				continue
			}
			var v T
			if err := json.Unmarshal(u.Value, &v); err != nil {
				continue
			}
			select {
			case out <- v:
			default:
			}
		}
	}()
	return out, cancel
}
