package server

import (
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"igresolve/pkg/logger"
)

// keepAlivePinger periodically pings a public URL of this service so
// free-tier hosts don't idle the process out
type keepAlivePinger struct {
	cron   *cron.Cron
	url    string
	client *http.Client
	logger logger.Logger
}

func newKeepAlivePinger(schedule, url string, log logger.Logger) *keepAlivePinger {
	p := &keepAlivePinger{
		cron:   cron.New(),
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: log,
	}

	if _, err := p.cron.AddFunc(schedule, p.ping); err != nil {
		log.WithError(err).WithField("schedule", schedule).
			Error("invalid keep-alive schedule, pinger disabled")
		return p
	}

	return p
}

func (p *keepAlivePinger) Start() {
	p.cron.Start()
	p.logger.WithField("url", p.url).Info("keep-alive pinger started")
}

func (p *keepAlivePinger) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
}

func (p *keepAlivePinger) ping() {
	resp, err := p.client.Get(p.url)
	if err != nil {
		p.logger.WithError(err).Warn("keep-alive ping failed")
		return
	}
	resp.Body.Close()
	p.logger.WithField("status", resp.StatusCode).Debug("keep-alive ping")
}
