// Package httpapi exposes the engine over HTTP with gin.
//
// Public routes are /health, /metrics and POST /auth/login and
// /auth/logout. Every /session route and GET /auth/me require a bearer
// token; /session/all, /session/stats, /session/user/:user_id and
// /session/cleanup also require the admin role.
package httpapi
