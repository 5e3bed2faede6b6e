package ports

// KVStore is the durable key-value store used to checkpoint the component cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type KVStore interface {
	// Read returns the value stored under key.
	// Returns nil, nil if the key does not exist.
	Read(key string) ([]byte, error)

	// Write replaces the value stored under key.
	Write(key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
