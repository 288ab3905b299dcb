// Package authsdk is the Go client for the identity service HTTP API, and
// the home of the request and response types both sides of that API share.
//
// Unauthenticated calls (register, login, OTP verification, password
// reset, health) hang off SDKClient. Calls that need a caller identity go
// through a Session, which carries either a bearer token pair (refreshed
// automatically before expiry) or an API key.
//
// Every response body is an envelope:
//
//	{"success": true, "data": {...}, "metadata": {"timestamp": "...", "correlation_id": "..."}}
//	{"success": false, "error": {"code": "LOGIN_FAILED", "message": "..."}, "metadata": {...}}
//
// Failures are returned as *APIError carrying the error code.
package authsdk
