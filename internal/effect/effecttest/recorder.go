// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package effecttest provides an in-memory executor for route computations.
package effecttest

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Recorder is an in-memory [effect.Executor]. It serves a fixed request body,
// records everything the computation emits and exposes a fake database.
type Recorder[DB any] struct {
	// DB is handed to every query.
	DB DB

	// RequestBody is returned by Body.
	RequestBody []byte

	// Files maps paths that ServeFile can find to their contents.
	Files map[string][]byte

	Status   int
	Header   http.Header
	Body     []byte
	Location string
	File     string
	MaxAge   time.Duration

	// Calls lists every executor call in order, e.g. "body", "emit 200".
	Calls []string
}

// New creates a recorder over db that will serve body.
func New[DB any](db DB, body string) *Recorder[DB] {
	var requestBody []byte
	if body != "" {
		requestBody = []byte(body)
	}
	return &Recorder[DB]{
		DB:          db,
		RequestBody: requestBody,
		Files:       map[string][]byte{},
		Header:      http.Header{},
	}
}

// Emit implements effect.Executor.
func (recorder *Recorder[DB]) Emit(status int, header http.Header, body []byte) {
	recorder.Status = status
	recorder.merge(header)
	recorder.Body = body
	recorder.Calls = append(recorder.Calls, fmt.Sprintf("emit %d", status))
}

// Redirect implements effect.Executor.
func (recorder *Recorder[DB]) Redirect(location string, header http.Header) {
	recorder.Status = http.StatusSeeOther
	recorder.merge(header)
	recorder.Location = location
	recorder.Calls = append(recorder.Calls, "redirect "+location)
}

// ServeFile implements effect.Executor.
func (recorder *Recorder[DB]) ServeFile(path string, maxAge time.Duration) int {
	recorder.File = path
	recorder.MaxAge = maxAge
	recorder.Calls = append(recorder.Calls, "file "+path)

	content, ok := recorder.Files[path]
	if !ok {
		recorder.Status = http.StatusNotFound
		return recorder.Status
	}
	recorder.Status = http.StatusOK
	recorder.Body = content
	return recorder.Status
}

// Body implements effect.Executor.
func (recorder *Recorder[DB]) Body() ([]byte, error) {
	recorder.Calls = append(recorder.Calls, "body")
	return recorder.RequestBody, nil
}

// Database implements effect.Executor.
func (recorder *Recorder[DB]) Database() DB { return recorder.DB }

// Cookie returns the value set for the named cookie, or "" when none was set.
func (recorder *Recorder[DB]) Cookie(name string) string {
	response := http.Response{Header: recorder.Header}
	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

// Text returns the emitted body as a string.
func (recorder *Recorder[DB]) Text() string { return string(recorder.Body) }

// Contains reports whether the emitted body contains substr.
func (recorder *Recorder[DB]) Contains(substr string) bool {
	return strings.Contains(string(recorder.Body), substr)
}

func (recorder *Recorder[DB]) merge(header http.Header) {
	for key, values := range header {
		for _, value := range values {
			recorder.Header.Add(key, value)
		}
	}
}
