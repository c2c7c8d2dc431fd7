package kodi

import (
	"context"
	"time"
)

// Monitor xbmc.Monitor: сообщает о запросе завершения
type Monitor struct {
	ctx context.Context
}

// NewMonitor монитор, завершение которого совпадает с отменой Host
func (h *Host) NewMonitor() *Monitor {
	return &Monitor{ctx: h.ctx}
}

// AbortRequested true после Ctrl+C или закрытия Host
func (m *Monitor) AbortRequested() bool {
	return m.ctx.Err() != nil
}

// WaitForAbort ждет завершения не дольше seconds. 0 и меньше означает ждать без ограничения.
// Возвращает true, если завершение запрошено
func (m *Monitor) WaitForAbort(seconds float64) bool {
	if seconds <= 0 {
		<-m.ctx.Done()
		return true
	}

	t := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer t.Stop()
	select {
	case <-m.ctx.Done():
		return true
	case <-t.C:
		return m.ctx.Err() != nil
	}
}
