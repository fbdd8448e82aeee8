package kvstore

import "sync"

// MemStore — хранилище в памяти. Используется в тестах и в сценариях,
// где долговременность не нужна.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemStore создаёт пустое хранилище в памяти.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

// Get возвращает значение по ключу и признак его наличия.
func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set записывает значение по ключу.
func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete удаляет ключ.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
