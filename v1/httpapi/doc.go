// Package httpapi exposes the grade and section services over REST.
//
// Routes are served with Echo under /api/v1. Errors are rendered as
// RFC 7807 problem documents with a urn:problem-type:* type per error
// class, so clients can switch on the type instead of parsing messages.
//
// Endpoints:
//
//	GET    /healthz
//	POST   /api/v1/grades
//	GET    /api/v1/grades
//	GET    /api/v1/grades/pageable
//	GET    /api/v1/grades/search
//	GET    /api/v1/grades/:id
//	PUT    /api/v1/grades/:id
//	DELETE /api/v1/grades/:id
//
// and the same set under /api/v1/sections. GET /grades returns all rows as
// a flat array; the pageable and search routes return a paginated envelope
// and accept page, size, name, created_from, and created_to query
// parameters.
package httpapi
