package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/go-chi/chi/v5"
)

// FunctionInvoker is the subset of the Lambda client used by the trigger
// endpoint. It exists so tests can substitute a fake.
type FunctionInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// TriggerHandler invokes the batch-notifier compute function on demand and
// relays its response payload to the caller.
type TriggerHandler struct {
	invoker      FunctionInvoker
	functionName string
}

// NewTriggerHandler creates a new trigger handler
func NewTriggerHandler(invoker FunctionInvoker, functionName string) *TriggerHandler {
	return &TriggerHandler{invoker: invoker, functionName: functionName}
}

// Routes returns the routes for the trigger endpoint
func (h *TriggerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Trigger)

	return r
}

// Trigger synchronously invokes the batch-notifier function and returns its
// payload.
func (h *TriggerHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.invoker.Invoke(r.Context(), &lambda.InvokeInput{
		FunctionName:   aws.String(h.functionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        []byte(`{"detail-type":"image-upload-report"}`),
	})
	if err != nil {
		slog.Error("Failed to invoke batch notifier", "function", h.functionName, "error", err)
		http.Error(w, "failed to invoke batch notifier", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(result.Payload); err != nil {
		slog.Error("Failed to write trigger response", "error", err)
	}
}
