// Package idgen produces the opaque unique identifiers reminders are keyed by.
package idgen

import "github.com/google/uuid"

type Generator struct{}

func New() *Generator {
	return &Generator{}
}

// Next returns a fresh globally-unique identifier.
func (g *Generator) Next() string {
	return uuid.New().String()
}
