//go:build lambda

// Command anvil-calc-lambda serves forge and alloy requests from an AWS
// Lambda function URL. Saving is not available.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/iwvelando/anvil-calc/internal/calculator"
	"github.com/iwvelando/anvil-calc/internal/forging"
	"github.com/iwvelando/anvil-calc/internal/server"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type function struct {
	logger  *zap.Logger
	service *calculator.Service
}

func newFunction(logger *zap.Logger) *function {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &function{logger: logger, service: calculator.NewService(logger, nil)}
}

// handle dispatches on the body's kind field: {"kind": "forge"|"alloy",
// "request": {...}}.
func (f *function) handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	if !gjson.Valid(body) {
		return errResp(http.StatusBadRequest, "invalid JSON body")
	}
	request := gjson.Get(body, "request")
	if !request.IsObject() {
		return errResp(http.StatusBadRequest, "missing request object")
	}

	switch kind := gjson.Get(body, "kind").String(); kind {
	case "forge":
		var req calculator.ForgeRequest
		if err := json.Unmarshal([]byte(request.Raw), &req); err != nil {
			return errResp(http.StatusBadRequest, "invalid forge request: "+err.Error())
		}
		resp, err := f.service.Forge(ctx, req)
		if err != nil {
			if resp != nil && errors.Is(err, forging.ErrNoForgeSolution) {
				return jsonResp(http.StatusUnprocessableEntity, map[string]any{
					"error":    err.Error(),
					"solution": resp.Solution,
				})
			}
			return f.fail("main.forge", err)
		}
		return jsonResp(http.StatusOK, resp)

	case "alloy":
		var req calculator.AlloyRequest
		if err := json.Unmarshal([]byte(request.Raw), &req); err != nil {
			return errResp(http.StatusBadRequest, "invalid alloy request: "+err.Error())
		}
		resp, err := f.service.PlanAlloy(ctx, req)
		if err != nil {
			return f.fail("main.alloy", err)
		}
		return jsonResp(http.StatusOK, resp)

	default:
		return errResp(http.StatusBadRequest, fmt.Sprintf("unknown kind %q: expected forge or alloy", kind))
	}
}

func (f *function) fail(op string, err error) (events.LambdaFunctionURLResponse, error) {
	status := server.StatusFor(err)
	f.logger.Warn("request rejected",
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)
	return errResp(status, err.Error())
}

func jsonResp(code int, payload any) (events.LambdaFunctionURLResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return errResp(http.StatusInternalServerError, "failed to encode response")
	}
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	lambda.Start(newFunction(logger).handle)
}
