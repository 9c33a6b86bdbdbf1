package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DoJSON отправляет запрос с JSON-телом (payload == nil — без тела).
// Непустой token передаётся как Authorization: Bearer.
func DoJSON(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, bytes.TrimSpace(body), nil
}

// PostJSON DoJSON с методом POST.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	return DoJSON(ctx, http.MethodPost, url, payload, token)
}

// Endpoint склеивает адрес сервера, путь и query-параметры (пустые значения пропускаются).
func Endpoint(serverURL, path string, query map[string]string) string {
	u := strings.TrimRight(serverURL, "/") + path
	q := url.Values{}
	for k, v := range query {
		if v != "" {
			q.Set(k, v)
		}
	}
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
