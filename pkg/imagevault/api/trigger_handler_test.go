package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagevault/imagevault/pkg/imagevault/api"
)

type fakeInvoker struct {
	lastInput *lambda.InvokeInput
	output    *lambda.InvokeOutput
	err       error
}

func (f *fakeInvoker) Invoke(_ context.Context, params *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func TestTriggerHandler(t *testing.T) {
	t.Run("relays the function payload", func(t *testing.T) {
		invoker := &fakeInvoker{output: &lambda.InvokeOutput{Payload: []byte(`{"sent":3}`)}}
		server := httptest.NewServer(api.NewTriggerHandler(invoker, "batch-notifier").Routes())
		defer server.Close()

		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"sent":3}`, string(body))

		require.NotNil(t, invoker.lastInput)
		assert.Equal(t, "batch-notifier", *invoker.lastInput.FunctionName)
	})

	t.Run("invoke failure returns internal error", func(t *testing.T) {
		invoker := &fakeInvoker{err: errors.New("function unreachable")}
		server := httptest.NewServer(api.NewTriggerHandler(invoker, "batch-notifier").Routes())
		defer server.Close()

		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
