// Package batch is a client for a remote batch-job REST service (JBeret REST
// API). It starts, restarts and inspects jobs, and creates and cancels
// schedules; all job execution happens on the server.
//
// Every operation is a row in a static route table (resource root, path
// template, HTTP method). Typed methods such as StartJob or Schedule are thin
// wrappers over Call, which resolves the template, applies query parameters
// and hands the request to Invoke.
//
// Errors fall into four kinds, distinguishable with errors.Is / errors.As:
// ErrUnresolvedTemplate (nothing was sent), ErrTransport, *ServerError
// (non-2xx status with the raw body) and ErrDecode (2xx with an unreadable body).
package batch
