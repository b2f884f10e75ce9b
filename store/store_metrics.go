package store

import (
	"context"

	"github.com/battlesnakeio/classic/rules"
	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentStore wraps all store methods to instrument the underlying calls.
func InstrumentStore(s Store) Store { return &metrics{s} }

var (
	storeCalls = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snake",
			Subsystem: "store",
			Name:      "calls",
			Help:      "Calls processed by the store.",
		},
		[]string{"method"},
	)
)

func instrument(method string) func() {
	t := prometheus.NewTimer(storeCalls.WithLabelValues(method))
	return func() { t.ObserveDuration() }
}

func init() {
	prometheus.MustRegister(storeCalls)
}

type metrics struct{ s Store }

func (m *metrics) CreateGame(c context.Context, g *Game) error {
	defer instrument("CreateGame")()
	return m.s.CreateGame(c, g)
}

func (m *metrics) SetGameStatus(c context.Context, id string, status rules.GameStatus) error {
	defer instrument("SetGameStatus")()
	return m.s.SetGameStatus(c, id, status)
}

func (m *metrics) PushGameFrame(c context.Context, id string, f *rules.Frame) error {
	defer instrument("PushGameFrame")()
	return m.s.PushGameFrame(c, id, f)
}

func (m *metrics) ListGameFrames(c context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	defer instrument("ListGameFrames")()
	return m.s.ListGameFrames(c, id, limit, offset)
}

func (m *metrics) GetGame(c context.Context, id string) (*Game, error) {
	defer instrument("GetGame")()
	return m.s.GetGame(c, id)
}
