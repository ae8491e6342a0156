package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mohae/deepcopy"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/pkg/valuepath"
	"go.uber.org/zap"
)

const filePrefix = "file:"

var placeholderRegex = regexp.MustCompile(`\{([^{}/]+)\}`)

// request is a fully resolved case, ready for the invoker.
type request struct {
	method    models.Method
	rawMethod string
	url       string
	header    http.Header
	cookies   map[string]string
	body      []byte
}

func (e *Executor) build(ctx context.Context, batch *models.Batch, cs *models.CaseSpec, deps *depStore) (*request, error) {
	header := mergeHeaders(batch.Project.Headers, cs.Headers)

	params, err := resolveParams(cs, deps)
	if err != nil {
		return nil, err
	}

	host := cs.Host
	if host == "" {
		host = batch.Project.Host
	}
	if host == "" {
		return nil, fmt.Errorf("%w: case %d", models.ErrMissingHost, cs.ID)
	}

	req := &request{
		method:    models.ParseMethod(cs.Method),
		rawMethod: cs.Method,
		url:       joinURL(host, e.substitutePath(cs, params)),
		header:    header,
		cookies:   batch.Project.Cookies,
	}

	req.body, err = e.encodeBody(ctx, batch.OwnerID, header, params)
	if err != nil {
		return req, err
	}
	return req, nil
}

// mergeHeaders layers case headers over project headers. Keys are
// canonicalised so "content-type" on the case replaces "Content-Type".
func mergeHeaders(project, cs map[string]string) http.Header {
	header := make(http.Header, len(project)+len(cs))
	for k, v := range project {
		header.Set(k, v)
	}
	for k, v := range cs {
		header.Set(k, v)
	}
	return header
}

func resolveParams(cs *models.CaseSpec, deps *depStore) (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if cs.Params != nil {
		if cp, ok := deepcopy.Copy(cs.Params).(map[string]interface{}); ok {
			params = cp
		}
	}

	for i, key := range cs.ExtendKeys {
		ev := cs.ExtendValues[i]
		resp, ok := deps.ResponseFor(ev.DependsOn)
		if !ok {
			return nil, fmt.Errorf("%w: param %q of case %d needs case %d", models.ErrDependencyNotFound, key.String(), cs.ID, ev.DependsOn)
		}
		v := coerceDigits(valuepath.Get(resp, ev.Steps))
		if err := valuepath.Set(v, params, key); err != nil {
			return nil, fmt.Errorf("failed to set param %q: %w", key.String(), err)
		}
	}
	return params, nil
}

// coerceDigits turns all-digit strings and integral JSON numbers into int64
// so they are sent as numbers.
func coerceDigits(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		if !valuepath.IsDigits(t) {
			return t
		}
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
	}
	return v
}

// substitutePath fills {name} placeholders from params. Missing or empty
// values leave the placeholder as it is.
func (e *Executor) substitutePath(cs *models.CaseSpec, params map[string]interface{}) string {
	return placeholderRegex.ReplaceAllStringFunc(cs.Path, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := params[name]
		if !ok || v == nil {
			e.logger.Debug("path placeholder has no value", zap.Int64("case", cs.ID), zap.String("placeholder", name))
			return m
		}
		s := Stringify(v)
		if s == "" {
			e.logger.Debug("path placeholder value is empty", zap.Int64("case", cs.ID), zap.String("placeholder", name))
			return m
		}
		return url.PathEscape(s)
	})
}

func joinURL(host, path string) string {
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	host = strings.TrimRight(host, "/")
	if path == "" {
		return host
	}
	return host + "/" + strings.TrimLeft(path, "/")
}

func (e *Executor) encodeBody(ctx context.Context, ownerID int64, header http.Header, params map[string]interface{}) ([]byte, error) {
	ct := header.Get("Content-Type")
	mediaType := strings.ToLower(strings.TrimSpace(ct))
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		mediaType = mt
	}

	switch {
	case ct == "" || mediaType == "application/json":
		header.Set("Content-Type", "application/json")
		return json.Marshal(params)
	case mediaType == "multipart/form-data":
		header.Del("Content-Type")
		return e.multipartBody(ctx, ownerID, header, params)
	default:
		return []byte(formValues(params).Encode()), nil
	}
}

func (e *Executor) multipartBody(ctx context.Context, ownerID int64, header http.Header, params map[string]interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, k := range sortedKeys(params) {
		v := params[k]
		if s, ok := v.(string); ok && strings.HasPrefix(s, filePrefix) {
			if err := e.attach(ctx, w, ownerID, k, strings.TrimPrefix(s, filePrefix)); err != nil {
				return nil, err
			}
			continue
		}
		if err := w.WriteField(k, Stringify(v)); err != nil {
			return nil, fmt.Errorf("failed to write form field %q: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}
	header.Set("Content-Type", w.FormDataContentType())
	return buf.Bytes(), nil
}

// attach copies a stored file into the multipart body. The file handle is
// released before returning, whatever the outcome.
func (e *Executor) attach(ctx context.Context, w *multipart.Writer, ownerID int64, field, ref string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid file reference %q", models.ErrFileNotFound, ref)
	}
	if e.files == nil {
		return fmt.Errorf("%w: no file store configured for file %d", models.ErrFileNotFound, id)
	}
	meta, err := e.files.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	f, err := os.Open(meta.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrFileNotFound, err)
	}
	defer f.Close()

	name := meta.Name
	if name == "" {
		name = filepath.Base(meta.Path)
	}
	part, err := w.CreateFormFile(field, name)
	if err != nil {
		return fmt.Errorf("failed to create form file %q: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy file %d into request: %w", id, err)
	}
	return nil
}

func formValues(params map[string]interface{}) url.Values {
	values := url.Values{}
	for _, k := range sortedKeys(params) {
		if list, ok := params[k].([]interface{}); ok {
			for _, item := range list {
				values.Add(k, Stringify(item))
			}
			continue
		}
		values.Set(k, Stringify(params[k]))
	}
	return values
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
