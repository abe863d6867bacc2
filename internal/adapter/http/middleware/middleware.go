package middleware

import (
	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/pkg/logger"
)

type Middleware struct {
	auth config.AuthConfig
	log  logger.Logger
}

func NewMiddleware(auth config.AuthConfig, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
