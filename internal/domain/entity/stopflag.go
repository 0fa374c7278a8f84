package entity

import "sync"

// StopFlag флаг аварийной остановки, общий для всего процесса.
// Взводится любым компонентом, снимается только явным Clear
// (действие оператора). Пока флаг взведён, контроллер манипулятора
// отклоняет любое движение, а оркестратор приостанавливает цикл.
type StopFlag struct {
	mu      sync.RWMutex
	engaged bool
	reason  string
}

// NewStopFlag создаёт снятый флаг.
func NewStopFlag() *StopFlag {
	return &StopFlag{}
}

// Trigger взводит флаг с указанием причины. Повторный вызов
// сохраняет первую причину.
func (f *StopFlag) Trigger(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.engaged {
		return
	}
	f.engaged = true
	f.reason = reason
}

// Clear снимает флаг.
func (f *StopFlag) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.engaged = false
	f.reason = ""
}

// Engaged сообщает, взведён ли флаг.
func (f *StopFlag) Engaged() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.engaged
}

// Reason возвращает причину остановки (пусто если флаг снят).
func (f *StopFlag) Reason() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reason
}
