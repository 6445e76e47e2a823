// Package audit records tool invocation metadata. Arguments and credentials
// are never part of a record.
package audit

import (
	"context"
	"time"
)

// Invocation is one forwarded tool call.
type Invocation struct {
	ID         string    `json:"id" dynamodbav:"id"`
	Server     string    `json:"server" dynamodbav:"server"`
	Tool       string    `json:"tool" dynamodbav:"tool"`
	Method     string    `json:"method" dynamodbav:"method"`
	Path       string    `json:"path" dynamodbav:"path"`
	Status     int       `json:"status,omitempty" dynamodbav:"status,omitempty"`
	ErrorCode  string    `json:"errorCode,omitempty" dynamodbav:"errorCode,omitempty"`
	DurationMs int64     `json:"durationMs" dynamodbav:"durationMs"`
	RequestID  string    `json:"requestId,omitempty" dynamodbav:"requestId,omitempty"`
	StartedAt  time.Time `json:"startedAt" dynamodbav:"startedAt"`
}

// Recorder persists invocations.
type Recorder interface {
	Record(ctx context.Context, inv *Invocation) error
}

// Repository is a Recorder that can also list recent invocations.
type Repository interface {
	Recorder
	ListRecent(ctx context.Context, server string, limit int) ([]Invocation, error)
}

// NopRecorder discards every invocation.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *Invocation) error { return nil }
