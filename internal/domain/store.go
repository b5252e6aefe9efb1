package domain

import "context"

// Storage keys. The names and JSON shapes match data written by the mobile
// client, so existing stores can be opened as-is.
const (
	KeyMeals    = "meals"
	KeyHistory  = "mealHistory"
	KeyProfile  = "userData"
	KeyDayState = "dayState"
	KeyMealSeq  = "mealSeq"

	categoryKeyPrefix = "meals_"
)

// KVStore is the port for the local key-value store. Values are opaque
// strings (JSON in practice). Get reports ok=false for a missing key.
// MultiGet omits missing keys from the result map.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	MultiGet(ctx context.Context, keys []string) (map[string]string, error)
	MultiRemove(ctx context.Context, keys []string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}
