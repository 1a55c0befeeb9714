package introspect

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/locator/logger"
)

// Router paths.
const (
	PathRegistrations = "/registrations"
	PathHealth        = "/health"
	PathValidate      = "/validate"
)

type options struct {
	serviceName string
	version     string
	log         *logger.Logger
}

// Option configures the router.
type Option func(*options)

// WithServiceName sets the service name reported by /health.
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithLogger sets the request logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// NewRouter builds a gin engine serving the introspection endpoints for c.
func NewRouter(c Inspector, opts ...Option) *gin.Engine {
	o := &options{serviceName: "locator", log: logger.GetGlobalLogger()}
	for _, opt := range opts {
		opt(o)
	}
	log := o.log.WithComponent("introspect")

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(log))

	h := newHandlers(c, o.serviceName, o.version, log)
	engine.GET(PathRegistrations, h.registrations)
	engine.GET(PathHealth, h.health)
	engine.POST(PathValidate, h.validate)
	return engine
}
