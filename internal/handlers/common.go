package handlers

import "github.com/chinonsochikelue/dreamalign-lite-sub000/internal/services"

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve service types in annotations.
type SessionView = services.SessionView
type SessionSummary = services.SessionSummary
type AnswerView = services.AnswerView
