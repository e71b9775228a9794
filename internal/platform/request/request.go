// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, so that the
route table reads the same way for path parameters, query parameters and
credentials.
*/
package requestutil

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Wildcard retrieves the part of the path matched by a trailing "*".
*/
func Wildcard(request *http.Request) string {
	return chi.URLParam(request, "*")
}

/*
Query retrieves the first value of a query parameter, or "" when absent.
*/
func Query(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}

/*
URI returns the path and query the client asked for, without scheme and host.
*/
func URI(request *http.Request) string {
	return request.URL.RequestURI()
}

/*
BasicAuth returns the credentials of the Authorization header.

Returns:
  - user, password: The decoded credentials
  - ok: false when the header is missing or malformed
*/
func BasicAuth(request *http.Request) (user, password string, ok bool) {
	return request.BasicAuth()
}
