package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
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

func TestMapError_DraftAndUsecaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
		wantCode   string
	}{
		{name: "tournament not found", err: draft.NotFound(draft.ErrTournamentNotFound, "tournament 9"), wantStatus: http.StatusNotFound, wantReason: "tournament", wantCode: "NOT_FOUND"},
		{name: "registration closed", err: draft.StateError(draft.ErrRegistrationClosed, "closed"), wantStatus: http.StatusConflict, wantReason: "registrationClosed", wantCode: "FAILED_PRECONDITION"},
		{name: "wrong count", err: draft.ValidationError(draft.ErrWrongCount, "want 4"), wantStatus: http.StatusUnprocessableEntity, wantReason: "wrongCount", wantCode: "INVALID_ARGUMENT"},
		{name: "basket duplicate", err: draft.ValidationError(draft.ErrBasketDuplicate, "basket 1"), wantStatus: http.StatusUnprocessableEntity, wantReason: "basketDuplicate", wantCode: "INVALID_ARGUMENT"},
		{name: "budget exceeded", err: fmt.Errorf("save: %w", draft.BudgetExceeded(100, 120)), wantStatus: http.StatusUnprocessableEntity, wantReason: "budgetExceeded", wantCode: "INVALID_ARGUMENT"},
		{name: "player mismatch", err: draft.IntegrityError("missing 7"), wantStatus: http.StatusConflict, wantReason: "playerMismatch", wantCode: "ABORTED"},
		{name: "persistence", err: draft.PersistenceError(errors.New("conn reset")), wantStatus: http.StatusServiceUnavailable, wantReason: "storageUnavailable", wantCode: "UNAVAILABLE"},
		{name: "forbidden", err: fmt.Errorf("%w: admin", usecase.ErrForbidden), wantStatus: http.StatusForbidden, wantReason: "forbidden", wantCode: "PERMISSION_DENIED"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantReason: "unauthorized", wantCode: "UNAUTHENTICATED"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantReason: "internalError", wantCode: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Reason != tt.wantReason || got.Status != tt.wantCode {
				t.Fatalf("mapError(%v)=%+v want status=%d reason=%s code=%s", tt.err, got, tt.wantStatus, tt.wantReason, tt.wantCode)
			}
		})
	}
}
