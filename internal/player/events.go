package player

import (
	"context"
	"sync"

	"github.com/hazadus/go-sake/internal/logger"
)

// EventKind вид уведомления плеера
type EventKind int

// Уведомления в порядке жизненного цикла сеанса
const (
	EventStarted EventKind = iota
	EventAVStarted
	EventAVChange
	EventPaused
	EventResumed
	EventSeek
	EventStopped
)

var eventNames = [...]string{"started", "avstarted", "avchange", "paused", "resumed", "seek", "stopped"}

// String имя уведомления
func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event уведомление о переходе плеера
type Event struct {
	Kind     EventKind
	Session  string
	File     string
	Position float64
	Offset   float64 // только для EventSeek
}

// Listener получает уведомления в порядке их возникновения
type Listener func(Event)

// Observer набор обратных вызовов xbmc.Player
type Observer interface {
	OnPlayBackStarted()
	OnAVStarted()
	OnAVChange()
	OnPlayBackPaused()
	OnPlayBackResumed()
	OnPlayBackSeek(time, offset float64)
	OnPlayBackStopped()
}

// BaseObserver пустая реализация Observer для встраивания
type BaseObserver struct{}

func (BaseObserver) OnPlayBackStarted() {}
func (BaseObserver) OnAVStarted() {}
func (BaseObserver) OnAVChange() {}
func (BaseObserver) OnPlayBackPaused() {}
func (BaseObserver) OnPlayBackResumed() {}
func (BaseObserver) OnPlayBackSeek(_, _ float64) {}
func (BaseObserver) OnPlayBackStopped() {}

// ObserverListener превращает Observer в Listener
func ObserverListener(o Observer) Listener {
	return func(ev Event) {
		switch ev.Kind {
		case EventStarted:
			o.OnPlayBackStarted()
		case EventAVStarted:
			o.OnAVStarted()
		case EventAVChange:
			o.OnAVChange()
		case EventPaused:
			o.OnPlayBackPaused()
		case EventResumed:
			o.OnPlayBackResumed()
		case EventSeek:
			o.OnPlayBackSeek(ev.Position, ev.Offset)
		case EventStopped:
			o.OnPlayBackStopped()
		}
	}
}

// dispatcher доставляет уведомления в отдельной горутине.
// Очередь не ограничена, поэтому публикация никогда не блокирует актор,
// а слушатели могут вызывать методы плеера
type dispatcher struct {
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []func()
	closed    bool
	listeners map[int]Listener
	order     []int
	nextID    int
	done      chan struct{}
	log       *logger.Logger
}

func newDispatcher(log *logger.Logger) *dispatcher {
	d := &dispatcher{
		listeners: make(map[int]Listener),
		done:      make(chan struct{}),
		log:       log,
	}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

func (d *dispatcher) subscribe(l Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.order = append(d.order, id)

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
		for i, v := range d.order {
			if v == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
}

func (d *dispatcher) enqueue(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.queue = append(d.queue, fn)
	d.cond.Signal()
	return true
}

func (d *dispatcher) publish(ev Event) {
	d.enqueue(func() {
		d.mu.Lock()
		listeners := make([]Listener, 0, len(d.order))
		for _, id := range d.order {
			listeners = append(listeners, d.listeners[id])
		}
		d.mu.Unlock()

		for _, l := range listeners {
			d.deliver(l, ev)
		}
	})
}

func (d *dispatcher) deliver(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("паника в обработчике события плеера", "event", ev.Kind.String(), "panic", r)
		}
	}()
	l(ev)
}

// sync ждет доставки всех уже опубликованных уведомлений.
// Нельзя вызывать из обработчика события
func (d *dispatcher) sync(ctx context.Context) error {
	reached := make(chan struct{})
	if !d.enqueue(func() { close(reached) }) {
		return ErrClosed
	}
	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		fn()
	}
}

// close доставляет оставшиеся уведомления и останавливает горутину
func (d *dispatcher) close() <-chan struct{} {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	return d.done
}
