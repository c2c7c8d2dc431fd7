// Package player содержит симулятор плеера Kodi: состояние сеанса, такт воспроизведения и уведомления
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hazadus/go-sake/internal/console"
	"github.com/hazadus/go-sake/internal/logger"
	"github.com/hazadus/go-sake/internal/utils"
)

// DefaultTotal длительность любого файла в секундах
const DefaultTotal = 5

// closeTimeout ограничивает ожидание горутин при закрытии
const closeTimeout = 2 * time.Second

var (
	// ErrNotPlaying запрос к плееру, который ничего не воспроизводит
	ErrNotPlaying = errors.New("плеер ничего не воспроизводит")
	// ErrClosed плеер уже закрыт
	ErrClosed = errors.New("плеер закрыт")
)

// Options настройки симулятора
type Options struct {
	// Interval период такта. 0 отключает таймер, такты подаются через Advance
	Interval time.Duration
	// Total длительность сеанса в секундах
	Total   int
	Console *console.Console
	Logger  *logger.Logger
}

// Simulator симулятор плеера. Состоянием владеет одна горутина-актор,
// все операции передаются ей через канал команд
type Simulator struct {
	opts   Options
	cmds   chan func()
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	events *dispatcher
	log    *logger.Logger

	// Принадлежит актору
	snap   Snapshot
	ticker *time.Ticker
	tickC  <-chan time.Time
}

// New создает симулятор и запускает его актор
func New(opts Options) *Simulator {
	if opts.Total <= 0 {
		opts.Total = DefaultTotal
	}
	log := opts.Logger
	if log == nil {
		log = logger.Global()
	}
	log = log.With("component", "player")

	ctx, cancel := context.WithCancel(context.Background())
	s := &Simulator{
		opts:   opts,
		cmds:   make(chan func()),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		events: newDispatcher(log),
		log:    log,
	}
	go s.loop()
	return s
}

func (s *Simulator) loop() {
	defer close(s.done)
	defer s.disarm()

	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.cmds:
			fn()
		case <-s.tickC:
			s.tick()
		}
	}
}

// do выполняет fn в горутине актора и ждет завершения
func (s *Simulator) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	cmd := func() {
		fn()
		close(finished)
	}

	select {
	case s.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Subscribe регистрирует слушателя уведомлений. Возвращает функцию отписки
func (s *Simulator) Subscribe(l Listener) func() {
	return s.events.subscribe(l)
}

// Sync ждет доставки всех уже опубликованных уведомлений
func (s *Simulator) Sync(ctx context.Context) error {
	return s.events.sync(ctx)
}

// Play начинает новый сеанс. Активный сеанс предварительно останавливается
func (s *Simulator) Play(ctx context.Context, path string) error {
	return s.do(ctx, func() {
		if s.snap.State.IsActive() {
			s.stop(true)
		}

		s.snap = Snapshot{
			State:   Initializing,
			File:    path,
			Total:   float64(s.opts.Total),
			Session: uuid.NewString(),
		}
		s.arm()
		s.line(fmt.Sprintf("Player: Starting playback of %s", path))
		s.log.Debug("начало сеанса", "file", path, "session", s.snap.Session)
	})
}

// Pause переключает playing и paused. В остальных состояниях ничего не делает
func (s *Simulator) Pause(ctx context.Context) error {
	return s.do(ctx, func() {
		switch s.snap.State {
		case Playing:
			s.snap.State = Paused
			s.emit(EventPaused, 0)
		case Paused:
			s.snap.State = Playing
			s.emit(EventResumed, 0)
		}
	})
}

// Seek устанавливает позицию. Ошибка ErrNotPlaying, если плеер остановлен
func (s *Simulator) Seek(ctx context.Context, position float64) error {
	var err error
	doErr := s.do(ctx, func() {
		if !s.snap.State.IsActive() {
			err = ErrNotPlaying
			return
		}
		s.snap.Position = position
		s.emit(EventSeek, 0)
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// Stop останавливает сеанс и уведомляет слушателей
func (s *Simulator) Stop(ctx context.Context) error {
	return s.do(ctx, func() { s.stop(true) })
}

// Halt останавливает сеанс без уведомлений
func (s *Simulator) Halt(ctx context.Context) error {
	return s.do(ctx, func() { s.stop(false) })
}

// Advance выполняет один такт вручную
func (s *Simulator) Advance(ctx context.Context) error {
	return s.do(ctx, s.tick)
}

// Snapshot возвращает копию состояния. После закрытия возвращает остановленное состояние
func (s *Simulator) Snapshot() Snapshot {
	var snap Snapshot
	if err := s.do(context.Background(), func() { snap = s.snap }); err != nil {
		return Snapshot{}
	}
	return snap
}

// IsPlaying true только в состоянии playing
func (s *Simulator) IsPlaying() bool {
	return s.Snapshot().State == Playing
}

// Time текущая позиция в секундах
func (s *Simulator) Time() float64 {
	return s.Snapshot().Position
}

// TotalTime длительность сеанса. Ошибка ErrNotPlaying, если плеер остановлен
func (s *Simulator) TotalTime() (float64, error) {
	snap := s.Snapshot()
	if !snap.State.IsActive() {
		return 0, ErrNotPlaying
	}
	return snap.Total, nil
}

// PlayingFile путь текущего файла, пустая строка если плеер остановлен
func (s *Simulator) PlayingFile() string {
	return s.Snapshot().File
}

// Close останавливает актор и доставку уведомлений
func (s *Simulator) Close() error {
	s.cancel()

	timeout := time.After(closeTimeout)
	select {
	case <-s.done:
	case <-timeout:
		return fmt.Errorf("актор плеера не завершился за %s", closeTimeout)
	}

	select {
	case <-s.events.close():
	case <-timeout:
		return fmt.Errorf("доставка уведомлений не завершилась за %s", closeTimeout)
	}
	return nil
}

// Методы ниже вызываются только из горутины актора

func (s *Simulator) tick() {
	snap := &s.snap
	s.line(fmt.Sprintf("Player: [%s] %s/%s",
		snap.State, utils.FormatClock(snap.PositionDuration()), utils.FormatClock(snap.TotalDuration())))

	switch snap.State {
	case Initializing:
		snap.State = Playing
		snap.Position = 0
		s.emit(EventStarted, 0)
		s.emit(EventAVStarted, 0)
		s.emit(EventAVChange, 0)
	case Playing:
		snap.Position++
		if snap.Position > snap.Total {
			s.stop(true)
		}
	}
}

func (s *Simulator) stop(notify bool) {
	if !s.snap.State.IsActive() {
		return
	}

	ended := s.snap
	s.snap = Snapshot{}
	s.disarm()

	s.line(fmt.Sprintf("Player: Stopped playback of %s", ended.File))
	s.log.Debug("конец сеанса", "file", ended.File, "session", ended.Session, "notify", notify)
	if notify {
		s.events.publish(Event{Kind: EventStopped, Session: ended.Session, File: ended.File, Position: ended.Position})
	}
}

func (s *Simulator) emit(kind EventKind, offset float64) {
	s.log.Debug("событие плеера", "event", kind.String(), "position", s.snap.Position)
	s.events.publish(Event{
		Kind:     kind,
		Session:  s.snap.Session,
		File:     s.snap.File,
		Position: s.snap.Position,
		Offset:   offset,
	})
}

func (s *Simulator) arm() {
	if s.opts.Interval <= 0 {
		return
	}
	s.disarm()
	s.ticker = time.NewTicker(s.opts.Interval)
	s.tickC = s.ticker.C
}

func (s *Simulator) disarm() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.tickC = nil
}

func (s *Simulator) line(text string) {
	if s.opts.Console != nil {
		s.opts.Console.Line(text, console.NoColor, true)
	}
}
