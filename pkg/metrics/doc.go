// Package metrics instruments the castlepact HTTP surfaces with Prometheus
// request metrics.
//
//   - castlepact_http_requests_total: counter (labels: server, method, route, status)
//   - castlepact_http_request_duration_seconds: histogram (labels: server, method, route)
//
// The route label is the ServeMux pattern that handled the request, such as
// "GET /castles/{id}", so path parameters never create new series. Requests
// no pattern matched are reported under the route "unmatched".
package metrics
