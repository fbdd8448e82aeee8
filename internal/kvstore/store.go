// Package kvstore реализует локальное долговременное key-value хранилище
// клиента: строковые ключи и значения, переживающие перезапуск приложения.
// Менеджеры согласия и сессии хранят в нём своё состояние.
package kvstore

// Store описывает контракт хранилища: атомарность гарантируется
// на уровне одного ключа, транзакций между ключами нет.
type Store interface {
	// Get возвращает значение по ключу и признак его наличия.
	Get(key string) (string, bool, error)
	// Set записывает значение по ключу, перезаписывая существующее.
	Set(key, value string) error
	// Delete удаляет ключ; отсутствие ключа не является ошибкой.
	Delete(key string) error
}
