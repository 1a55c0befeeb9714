// Package introspect exposes a container over HTTP with gin.
//
//	GET  /registrations  registrations and collections, in registration order
//	GET  /health         container state and the last validation result
//	POST /validate       runs the validation pass
//
// Usage:
//
//	router := introspect.NewRouter(container, introspect.WithServiceName("dojo"))
//	_ = router.Run(":8080")
package introspect
