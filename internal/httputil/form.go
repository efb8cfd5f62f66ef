package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"sort"
)

const maxResponseBodyBytes = 1 << 20

// PostForm sends fields as a multipart form and returns the decoded JSON
// response body. Fields with a nil value are left out of the form. The HTTP
// status is not inspected; callers decide what a failure looks like.
func PostForm(ctx context.Context, client *http.Client, url string, fields map[string]any) (map[string]any, error) {
	body, contentType, err := encodeForm(fields)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create form request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send form request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	if err := DecodeJSON(resp.Body, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func encodeForm(fields map[string]any) (io.Reader, string, error) {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if isUndefined(v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, k := range keys {
		if err := mw.WriteField(k, formValue(fields[k])); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// isUndefined reports whether v is nil, including typed nil pointers, maps,
// slices and interfaces.
func isUndefined(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func formValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface())
}

// DecodeJSON reads at most 1 MiB from r and unmarshals it into v.
func DecodeJSON(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxResponseBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
