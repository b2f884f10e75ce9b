package worker

import "github.com/prometheus/client_golang/prometheus"

var (
	gamesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snake",
		Subsystem: "worker",
		Name:      "games_started_total",
		Help:      "Games started by the runner.",
	})
	ticksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snake",
		Subsystem: "worker",
		Name:      "ticks_total",
		Help:      "Ticks processed by the runner.",
	})
	foodEaten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snake",
		Subsystem: "worker",
		Name:      "food_eaten_total",
		Help:      "Food items eaten.",
	})
	deaths = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snake",
		Subsystem: "worker",
		Name:      "deaths_total",
		Help:      "Games lost, by cause.",
	}, []string{"cause"})
	finalScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "snake",
		Subsystem: "worker",
		Name:      "final_score",
		Help:      "Score at the end of a game.",
		Buckets:   prometheus.LinearBuckets(0, 10, 10),
	})
)

func init() {
	prometheus.MustRegister(gamesStarted, ticksTotal, foodEaten, deaths, finalScore)
}
