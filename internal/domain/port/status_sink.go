package port

import "fabric-sort/internal/domain/entity"

// StatusSink приёмник телеметрии. Публикация не должна блокировать
// цикл инспекции.
type StatusSink interface {
	// Publish отправляет запись телеметрии наружу.
	Publish(record entity.StatusRecord)
}
