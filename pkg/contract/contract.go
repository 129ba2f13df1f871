/*
Copyright 2025-2026 the eHalisaha Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package contract checks traffic against the application API the suites
// depend on.
package contract

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// ErrUndocumented is returned for requests the document has no operation for.
var ErrUndocumented = errors.New("undocumented operation")

//go:embed openapi.yaml
var document []byte

// Document returns a freshly parsed and validated copy of the API document.
func Document(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("loading api document: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating api document: %w", err)
	}

	return doc, nil
}

// Validator matches requests to operations and checks both sides of the
// exchange.
type Validator struct {
	router routers.Router
}

// NewValidator returns a validator for the embedded document.
func NewValidator(ctx context.Context) (*Validator, error) {
	doc, err := Document(ctx)
	if err != nil {
		return nil, err
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building router: %w", err)
	}

	return &Validator{
		router: router,
	}, nil
}

func options() *openapi3filter.Options {
	return &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         true,
	}
}

// Validate checks a request, with its body, and the response it got.
// Statuses the document does not list are accepted.
func (v *Validator) Validate(ctx context.Context, req *http.Request, requestBody []byte, status int, header http.Header, responseBody []byte) error {
	// Body readers are single use, so work on a copy.
	r := req.Clone(ctx)

	r.Body = http.NoBody
	if requestBody != nil {
		r.Body = io.NopCloser(bytes.NewReader(requestBody))
	}

	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		return fmt.Errorf("%w: %s %s", ErrUndocumented, req.Method, req.URL.Path)
	}

	requestInput := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options:    options(),
	}

	if err := openapi3filter.ValidateRequest(ctx, requestInput); err != nil {
		return fmt.Errorf("request to %s violates contract: %w", route.Operation.OperationID, err)
	}

	responseInput := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: requestInput,
		Status:                 status,
		Header:                 header,
		Options:                options(),
	}

	responseInput.SetBodyBytes(responseBody)

	if err := openapi3filter.ValidateResponse(ctx, responseInput); err != nil {
		return fmt.Errorf("response from %s violates contract: %w", route.Operation.OperationID, err)
	}

	return nil
}
