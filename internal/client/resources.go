package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/fivetwenty-io/opsapi/internal/http"
	"github.com/fivetwenty-io/opsapi/pkg/opsapi"
)

// resourcePath joins a collection path and an escaped identifier.
func resourcePath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// intResourcePath joins a collection path and a numeric identifier.
func intResourcePath(collection string, id int) string {
	return collection + "/" + strconv.Itoa(id)
}

func requireID(id string) error {
	if id == "" {
		return constants.ErrResourceIDMissing
	}

	return nil
}

func requireIntID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", constants.ErrResourceIDMissing, id)
	}

	return nil
}

// getResource fetches path and decodes the body into a T.
func getResource[T any](ctx context.Context, httpClient *http.Client, path string, params *opsapi.QueryParams, what string) (*T, error) {
	resp, err := httpClient.Get(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", what, err)
	}

	var result T

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return &result, nil
}

// sendResource sends body with method and decodes the response into a T.
func sendResource[T any](ctx context.Context, httpClient *http.Client, method, path string, body interface{}, what string) (*T, error) {
	resp, err := httpClient.Do(ctx, &http.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	result, err := decodeOneOrFirst[T](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return result, nil
}

// deleteResource deletes path. The response body is ignored.
func deleteResource(ctx context.Context, httpClient *http.Client, path, what string) error {
	_, err := httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", what, err)
	}

	return nil
}

// decodeOneOrFirst decodes a single object, or the first element when the API
// answers a batch create with an array.
func decodeOneOrFirst[T any](data []byte) (*T, error) {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T

		err := json.Unmarshal(trimmed, &items)
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return nil, constants.ErrEmptyResult
		}

		return &items[0], nil
	}

	var result T

	err := json.Unmarshal(trimmed, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
