// Package api exposes the circulation Service as JSON over HTTP using gin.
//
// Every response is an envelope: {"success": true, "<resource>": ...} on success and
// {"success": false, "error": "...", "kind": "..."} on failure. The caller's identity
// arrives in the X-User-ID and X-User-Role headers, set by the upstream identity provider.
//
// Usage:
//
//	router, err := api.NewRouter(service,
//		api.WithAllowedOrigins("http://localhost:5173"),
//		api.WithRateLimit(rate.Limit(20), 40),
//	)
//	if err != nil {
//		return err
//	}
//
//	return http.ListenAndServe(":8080", router)
package api
