package commands

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	promEnable = false
	promListen = ":9000"
)

func prometheus() {
	if !promEnable {
		log.Info("prometheus exporter not enabled")
		return
	}

	log.WithField("addr", promListen).Info("starting prometheus exporter")
	go func() {
		r := http.NewServeMux()
		r.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(promListen, r); err != nil {
			log.WithError(err).Warn("prometheus failed to listen")
		}
	}()
}
