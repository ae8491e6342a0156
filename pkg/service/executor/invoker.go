package executor

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/andybalholm/brotli"
	"github.com/tidwall/sjson"
	"go.keploy.io/apicase/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
)

const maxResponseBytes = 32 << 20

// result is what the invoker captured for one case. Failures are folded into
// a synthetic JSON body so the verdict always has something to read.
type result struct {
	status   int
	body     []byte
	response interface{}
	elapsed  time.Duration
	err      error
}

func (e *Executor) invoke(ctx context.Context, client HTTPClient, req *request) *result {
	switch req.method {
	case models.MethodPost, models.MethodGet, models.MethodPut, models.MethodDelete:
	case models.MethodUnsupported:
		return unsupportedResult(req.rawMethod)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.method.HTTP(), req.url, bytes.NewReader(req.body))
	if err != nil {
		return failedResult(0, err)
	}
	httpReq.Header = req.header.Clone()
	for _, name := range sortedCookieNames(req.cookies) {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: req.cookies[name]})
	}

	e.logger.Debug("sending request", zap.String("method", httpReq.Method), zap.String("url", req.url))

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		res := failedResult(0, err)
		res.elapsed = time.Since(start)
		e.metrics.observeRequest(res.elapsed)
		return res
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	elapsed := time.Since(start)
	e.metrics.observeRequest(elapsed)
	if err != nil {
		res := failedResult(resp.StatusCode, err)
		res.elapsed = elapsed
		return res
	}

	decoded, err := decodeJSON(raw)
	if err != nil {
		e.logger.Debug("response is not JSON", zap.String("url", req.url), zap.Int("status", resp.StatusCode), zap.Error(err))
		res := failedResult(resp.StatusCode, fmt.Errorf("response is not JSON: %w", err))
		res.elapsed = elapsed
		return res
	}

	return &result{
		status:   resp.StatusCode,
		body:     raw,
		response: decoded,
		elapsed:  elapsed,
	}
}

// readBody undoes content encodings the transport leaves alone and converts
// the announced charset to UTF-8.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = io.LimitReader(resp.Body, maxResponseBytes)

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(r)
	case "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzip response: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		if charset := strings.ToLower(params["charset"]); charset != "" && charset != "utf-8" && charset != "utf8" {
			enc, err := htmlindex.Get(charset)
			if err != nil {
				return nil, fmt.Errorf("unknown response charset %q: %w", charset, err)
			}
			r = enc.NewDecoder().Reader(r)
		}
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// decodeJSON keeps numbers as json.Number so they compare by their literal text.
func decodeJSON(raw []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func failedResult(status int, err error) *result {
	msg := fmt.Sprintf("%s: %v", models.ErrTransportFailure, err)
	return syntheticResult(status, msg, fmt.Errorf("%w: %v", models.ErrTransportFailure, err))
}

func unsupportedResult(method string) *result {
	msg := fmt.Sprintf("%s: %q", models.ErrUnsupportedMethod, method)
	if hint := suggestMethod(method); hint != "" {
		msg += fmt.Sprintf(", did you mean %q?", hint)
	}
	return syntheticResult(http.StatusOK, msg, fmt.Errorf("%w: %q", models.ErrUnsupportedMethod, method))
}

func syntheticResult(status int, message string, err error) *result {
	body, _ := sjson.SetBytes([]byte(`{}`), "code", "-1")
	body, _ = sjson.SetBytes(body, "message", message)
	decoded, _ := decodeJSON(body)
	return &result{
		status:   status,
		body:     body,
		response: decoded,
		err:      err,
	}
}

// suggestMethod returns the closest supported verb within two edits.
func suggestMethod(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	if m == "" {
		return ""
	}
	best, bestDist := "", 3
	for _, candidate := range models.SupportedMethods {
		if d := levenshtein.ComputeDistance(m, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return strings.ToUpper(best)
}

func sortedCookieNames(cookies map[string]string) []string {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
