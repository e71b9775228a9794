// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/taibuivan/yomira-cast/internal/effect"
	"github.com/taibuivan/yomira-cast/internal/users"
)

var _ effect.Executor[*users.Store] = (*Executor)(nil)

// Executor performs route primitives against a live HTTP exchange.
type Executor struct {
	writer       http.ResponseWriter
	request      *http.Request
	store        *users.Store
	maxBodyBytes int64
}

// NewExecutor binds an exchange to the store its queries run against.
// A non-positive maxBodyBytes leaves the body unbounded.
func NewExecutor(writer http.ResponseWriter, request *http.Request, store *users.Store, maxBodyBytes int64) *Executor {
	return &Executor{
		writer:       writer,
		request:      request,
		store:        store,
		maxBodyBytes: maxBodyBytes,
	}
}

// Emit copies header onto the response and writes body.
func (executor *Executor) Emit(status int, header http.Header, body []byte) {
	executor.copyHeader(header)
	executor.writer.WriteHeader(status)
	_, _ = executor.writer.Write(body)
}

// Redirect answers 303 See Other.
func (executor *Executor) Redirect(location string, header http.Header) {
	executor.copyHeader(header)
	executor.writer.Header().Set("Location", location)
	executor.writer.WriteHeader(http.StatusSeeOther)
}

// ServeFile streams path with a public cache lifetime. Directories and
// missing files answer a plain 404.
func (executor *Executor) ServeFile(path string, maxAge time.Duration) int {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.Error(executor.writer, "Not Found", http.StatusNotFound)
		return http.StatusNotFound
	}

	executor.writer.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int64(maxAge/time.Second)))

	recorder := &statusWriter{ResponseWriter: executor.writer, status: http.StatusOK}
	http.ServeFile(recorder, executor.request, path)
	return recorder.status
}

// Body reads the request body, bounded by the configured limit.
func (executor *Executor) Body() ([]byte, error) {
	reader := io.Reader(executor.request.Body)
	if executor.maxBodyBytes > 0 {
		reader = http.MaxBytesReader(executor.writer, executor.request.Body, executor.maxBodyBytes)
	}
	return io.ReadAll(reader)
}

// Database returns the store.
func (executor *Executor) Database() *users.Store {
	return executor.store
}

func (executor *Executor) copyHeader(header http.Header) {
	target := executor.writer.Header()
	for key, values := range header {
		for _, value := range values {
			target.Add(key, value)
		}
	}
}

// statusWriter remembers the status http.ServeFile chose, which can be 200,
// 206 or 304 depending on the request's conditional headers.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}
