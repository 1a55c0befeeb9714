package introspect

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/locator/di"
	"github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/observability"
)

// Inspector is the view of a container the endpoints need. *di.Container
// implements it.
type Inspector interface {
	ID() string
	State() di.State
	Registrations() []di.RegistrationInfo
	Collections() []di.CollectionInfo
	ValidateContext(ctx context.Context) error
}

type handlers struct {
	c       Inspector
	service string
	version string
	log     *logger.Logger

	mu        sync.RWMutex
	validated bool
	lastErr   error
}

func newHandlers(c Inspector, service, version string, log *logger.Logger) *handlers {
	return &handlers{c: c, service: service, version: version, log: log}
}

func (h *handlers) registrations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"container_id":  h.c.ID(),
		"state":         h.c.State().String(),
		"registrations": h.c.Registrations(),
		"collections":   h.c.Collections(),
	})
}

// health reports the container as degraded while still configuring and as
// down after a failed validation.
func (h *handlers) health(c *gin.Context) {
	h.mu.RLock()
	validated, lastErr := h.validated, h.lastErr
	h.mu.RUnlock()

	state := h.c.State()
	container := observability.HealthFromError("container", lastErr, map[string]string{
		"id":        h.c.ID(),
		"state":     state.String(),
		"validated": boolString(validated),
	})
	if lastErr == nil && state == di.Configuring {
		container.Status = observability.HealthStatusDegraded
		container.Message = "container is still configuring"
	}

	sh := observability.NewServiceHealth(h.service, h.version)
	sh.AddComponent(container)

	httpStatus := http.StatusOK
	if sh.Status == observability.HealthStatusDown {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status":     sh.Status,
		"service":    sh.Service,
		"version":    sh.Version,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"components": sh.Components,
	})
}

func (h *handlers) validate(c *gin.Context) {
	err := h.c.ValidateContext(c.Request.Context())

	h.mu.Lock()
	h.validated = true
	h.lastErr = err
	h.mu.Unlock()

	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":        "valid",
			"registrations": len(h.c.Registrations()),
		})
		return
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.New(errors.ErrCodeValidationFailed, err.Error())
	}
	resp := appErr.ToResponse()
	if failures := causes(appErr.Cause); len(failures) > 0 {
		resp.Error.Details = mergeDetail(resp.Error.Details, "errors", failures)
	}
	h.log.Warn("validation request failed", logger.ErrorFields("validate", err))
	c.JSON(http.StatusUnprocessableEntity, resp)
}

// causes flattens a joined error into its messages.
func causes(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func mergeDetail(details map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	out[key] = value
	return out
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
