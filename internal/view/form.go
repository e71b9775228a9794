// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view

// Form is the data of the generic "form" page.
type Form struct {
	Heading string
	Action  string
	Submit  string
	Fields  []Field

	// Errors not tied to a single field.
	Errors []string
}

// Field is one input of a [Form].
type Field struct {
	Name  string
	Label string
	// Type is an <input> type, or "select" to render Options.
	Type    string
	Value   string
	Error   string
	Options []Option
}

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Problem is the data of the "error" page.
type Problem struct {
	Status  int
	Message string
}
