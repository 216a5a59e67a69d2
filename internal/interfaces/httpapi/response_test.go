package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/kickabout/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_Taxonomy(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{err: usecase.ErrSeatUnavailable, status: http.StatusConflict, reason: "seatUnavailable"},
		{err: usecase.ErrAlreadyJoined, status: http.StatusConflict, reason: "alreadyJoined"},
		{err: usecase.ErrConflict, status: http.StatusConflict, reason: "conflict"},
		{err: usecase.ErrAlreadyConfirmed, status: http.StatusConflict, reason: "attendanceAlreadyConfirmed"},
		{err: usecase.ErrInvalidStateTransition, status: http.StatusConflict, reason: "invalidStateTransition"},
		{err: usecase.ErrIncompleteAttendance, status: http.StatusUnprocessableEntity, reason: "incompleteAttendance"},
		{err: usecase.ErrNotFound, status: http.StatusNotFound, reason: "notFound"},
		{err: usecase.ErrUnauthorized, status: http.StatusUnauthorized, reason: "unauthorized"},
		{err: usecase.ErrForbidden, status: http.StatusForbidden, reason: "forbidden"},
		{err: usecase.ErrDependencyUnavailable, status: http.StatusServiceUnavailable, reason: "dependencyUnavailable"},
		{err: errors.New("boom"), status: http.StatusInternalServerError, reason: "internalError"},
	}
	for _, tt := range tests {
		got := mapError(context.Background(), fmt.Errorf("wrapped: %w", tt.err))
		if got.HTTPStatus != tt.status || got.Reason != tt.reason {
			t.Fatalf("%v: got %d/%s want %d/%s", tt.err, got.HTTPStatus, got.Reason, tt.status, tt.reason)
		}
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: connection refused to 10.0.0.7"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.7") {
		t.Fatalf("internal error detail leaked: %s", rec.Body.String())
	}
}
