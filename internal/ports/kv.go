package ports

import "context"

// KVRepository est le stockage durable partagé par toutes les vues.
// Les valeurs sont du JSON opaque pour le repository.
type KVRepository interface {
	// Get renvoie ErrNotFound si la clé n'existe pas.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
