// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the
// handler:
//
//   - auth: API key validation protecting the run endpoints.
//   - rayid: a unique request ID (RayID) for every incoming request,
//     injected into the context and response headers for tracing.
//
// These components are registered globally in the application setup.
package middleware
