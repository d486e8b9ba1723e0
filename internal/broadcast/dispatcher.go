package broadcast

import (
	"github.com/sirupsen/logrus"
)

// Broadcaster — интерфейс рассылки событий всем слушателям
type Broadcaster interface {
	Broadcast(event Event)
}

// Sink — приемник событий (websocket-хаб, очередь вебхуков и т.п.)
type Sink interface {
	Send(event Event)
}

// Dispatcher размножает событие по всем приемникам. Отказ одного приемника
// изолирован и не влияет на доставку остальным.
type Dispatcher struct {
	sinks  []Sink
	logger *logrus.Logger
}

// NewDispatcher создает диспетчер событий
func NewDispatcher(logger *logrus.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, logger: logger}
}

// Broadcast отправляет событие во все приемники, fire-and-forget
func (d *Dispatcher) Broadcast(event Event) {
	for _, sink := range d.sinks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.WithField("event_type", event.Type).
						Errorf("Broadcast sink panicked: %v", r)
				}
			}()
			sink.Send(event)
		}()
	}
}
