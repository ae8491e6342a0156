package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.keploy.io/apicase/pkg/models"
)

type fakeFiles struct {
	files map[int64]*models.File
	asked []int64
}

func (f *fakeFiles) GetByID(_ context.Context, ownerID, fileID int64) (*models.File, error) {
	f.asked = append(f.asked, fileID)
	file, ok := f.files[fileID]
	if !ok || file.OwnerID != ownerID {
		return nil, models.ErrFileNotFound
	}
	return file, nil
}

// TestBuild_PathPlaceholders substitutes known values and keeps unknown ones.
func TestBuild_PathPlaceholders(t *testing.T) {
	e := newTestExecutor()
	batch := &models.Batch{Project: models.Project{Host: "api.local/"}}
	cs := &models.CaseSpec{
		ID: 1, Method: "get", Path: "/users/{id}/files/{name}/{missing}/{empty}",
		Params: map[string]interface{}{"id": 12, "name": "a b", "empty": ""},
	}

	req, err := e.build(context.Background(), batch, cs, newDepStore())

	require.NoError(t, err)
	assert.Equal(t, "http://api.local/users/12/files/a%20b/{missing}/{empty}", req.url)
	assert.Equal(t, models.MethodGet, req.method)
}

// TestBuild_CaseHostWins prefers the case host over the project host.
func TestBuild_CaseHostWins(t *testing.T) {
	e := newTestExecutor()
	batch := &models.Batch{Project: models.Project{Host: "http://project"}}
	cs := &models.CaseSpec{ID: 1, Method: "get", Host: "https://case:8443", Path: "ping"}

	req, err := e.build(context.Background(), batch, cs, newDepStore())

	require.NoError(t, err)
	assert.Equal(t, "https://case:8443/ping", req.url)
}

// TestBuild_DoesNotMutateStoredParams resolves extends on a copy.
func TestBuild_DoesNotMutateStoredParams(t *testing.T) {
	e := newTestExecutor()
	deps := newDepStore()
	deps.put(&models.Report{CaseID: 1}, map[string]interface{}{"id": "7"})
	cs := &models.CaseSpec{
		ID: 2, Method: "post", Path: "/",
		Params:       map[string]interface{}{"user": map[string]interface{}{"name": "x"}},
		ExtendKeys:   []models.ValuePath{{"user", "id"}},
		ExtendValues: []models.ExtendValue{{DependsOn: 1, Steps: models.ValuePath{"id"}}},
	}

	req, err := e.build(context.Background(), &models.Batch{Project: models.Project{Host: "h"}}, cs, deps)

	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"name":"x","id":7}}`, string(req.body))
	assert.Equal(t, map[string]interface{}{"name": "x"}, cs.Params["user"])
}

// TestBuild_FormBody encodes non-JSON content types as form values.
func TestBuild_FormBody(t *testing.T) {
	e := newTestExecutor()
	cs := &models.CaseSpec{
		ID: 1, Method: "post", Path: "/",
		Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Params:  map[string]interface{}{"b": []interface{}{"1", "2"}, "a": true},
	}

	req, err := e.build(context.Background(), &models.Batch{Project: models.Project{Host: "h"}}, cs, newDepStore())

	require.NoError(t, err)
	assert.Equal(t, "a=true&b=1&b=2", string(req.body))
	assert.Equal(t, "application/x-www-form-urlencoded", req.header.Get("Content-Type"))
}

// TestBuild_MultipartWithFile attaches stored files and writes plain fields.
func TestBuild_MultipartWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))
	files := &fakeFiles{files: map[int64]*models.File{5: {ID: 5, OwnerID: 9, Name: "avatar.png", Path: path}}}
	e := New(nopLogger(), testExecuteConfig(), files, nil)
	cs := &models.CaseSpec{
		ID: 1, Method: "post", Path: "/upload",
		Headers: map[string]string{"content-type": "multipart/form-data"},
		Params:  map[string]interface{}{"avatar": "file:5", "title": "me"},
	}

	req, err := e.build(context.Background(), &models.Batch{OwnerID: 9, Project: models.Project{Host: "h"}}, cs, newDepStore())

	require.NoError(t, err)
	mediaType, params, err := mime.ParseMediaType(req.header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	mr := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
	got := map[string]string{}
	names := map[string]string{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(part)
		require.NoError(t, err)
		got[part.FormName()] = string(b)
		names[part.FormName()] = part.FileName()
	}
	assert.Equal(t, map[string]string{"avatar": "png-bytes", "title": "me"}, got)
	assert.Equal(t, "avatar.png", names["avatar"])
	assert.Equal(t, []int64{5}, files.asked)
}

// TestBuild_MultipartUnknownFile fails with ErrFileNotFound.
func TestBuild_MultipartUnknownFile(t *testing.T) {
	files := &fakeFiles{files: map[int64]*models.File{}}
	e := New(nopLogger(), testExecuteConfig(), files, nil)
	cs := &models.CaseSpec{
		ID: 1, Method: "post", Path: "/upload",
		Headers: map[string]string{"Content-Type": "multipart/form-data"},
		Params:  map[string]interface{}{"avatar": "file:77"},
	}

	_, err := e.build(context.Background(), &models.Batch{Project: models.Project{Host: "h"}}, cs, newDepStore())

	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

// TestMergeHeaders lets case headers override project headers regardless of case.
func TestMergeHeaders(t *testing.T) {
	h := mergeHeaders(map[string]string{"X-Token": "p", "Accept": "a"}, map[string]string{"x-token": "c"})

	assert.Equal(t, http.Header{"X-Token": {"c"}, "Accept": {"a"}}, h)
}

// TestCoerceDigits converts only integral values.
func TestCoerceDigits(t *testing.T) {
	assert.Equal(t, int64(42), coerceDigits("42"))
	assert.Equal(t, "4.2", coerceDigits("4.2"))
	assert.Equal(t, "abc", coerceDigits("abc"))
	assert.Equal(t, true, coerceDigits(true))
	assert.Nil(t, coerceDigits(nil))
}

// TestClampDelay bounds delays to the accepted range.
func TestClampDelay(t *testing.T) {
	assert.Equal(t, int64(0), int64(clampDelay(-3)))
	assert.Equal(t, int64(0), int64(clampDelay(0)))
	assert.Equal(t, "2s", clampDelay(2).String())
	assert.Equal(t, "5m0s", clampDelay(10000).String())
}
