package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"file-share-api/internal/domain/file"
	"file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/jwt"
)

const testSecret = "test-secret"

var errNotUsed = errors.New("not used")

type FakeUserService struct {
	FindUserByIDFunc   func(ctx context.Context, id user.UUID) (*user.User, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*user.User, error)
	FindOtherUsersFunc func(ctx context.Context, id user.UUID) (user.Users, error)
	CreateUserFunc     func(ctx context.Context, u user.User) (*user.User, error)
}

func (f *FakeUserService) FindUserByID(ctx context.Context, id user.UUID) (*user.User, error) {
	if f.FindUserByIDFunc == nil {
		return nil, errNotUsed
	}
	return f.FindUserByIDFunc(ctx, id)
}

func (f *FakeUserService) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.FindByEmailFunc == nil {
		return nil, errNotUsed
	}
	return f.FindByEmailFunc(ctx, email)
}

func (f *FakeUserService) FindOtherUsers(ctx context.Context, id user.UUID) (user.Users, error) {
	if f.FindOtherUsersFunc == nil {
		return nil, errNotUsed
	}
	return f.FindOtherUsersFunc(ctx, id)
}

func (f *FakeUserService) CreateUser(ctx context.Context, u user.User) (*user.User, error) {
	if f.CreateUserFunc == nil {
		return nil, errNotUsed
	}
	return f.CreateUserFunc(ctx, u)
}

type fakeAuthService struct {
	GenerateTokenFunc func(u *user.User, password string) (string, error)
	HashPasswordFunc  func(password string) (string, error)
}

func (f *fakeAuthService) GenerateToken(u *user.User, password string) (string, error) {
	if f.GenerateTokenFunc == nil {
		return "", errNotUsed
	}
	return f.GenerateTokenFunc(u, password)
}

func (f *fakeAuthService) HashPassword(password string) (string, error) {
	if f.HashPasswordFunc == nil {
		return "", errNotUsed
	}
	return f.HashPasswordFunc(password)
}

type fakeFileService struct {
	UploadFunc    func(ctx context.Context, owner user.UUID, in []*multipart.FileHeader) (file.Files, error)
	DashboardFunc func(ctx context.Context, owner user.UUID) (file.Files, error)
	OpenFunc      func(ctx context.Context, id file.UUID, requester user.UUID) (*file.File, io.ReadCloser, error)
	DeleteFunc    func(ctx context.Context, id file.UUID, requester user.UUID) error
}

func (f *fakeFileService) Upload(ctx context.Context, owner user.UUID, in []*multipart.FileHeader) (file.Files, error) {
	if f.UploadFunc == nil {
		return nil, errNotUsed
	}
	return f.UploadFunc(ctx, owner, in)
}

func (f *fakeFileService) Dashboard(ctx context.Context, owner user.UUID) (file.Files, error) {
	if f.DashboardFunc == nil {
		return nil, errNotUsed
	}
	return f.DashboardFunc(ctx, owner)
}

func (f *fakeFileService) Open(ctx context.Context, id file.UUID, requester user.UUID) (*file.File, io.ReadCloser, error) {
	if f.OpenFunc == nil {
		return nil, nil, errNotUsed
	}
	return f.OpenFunc(ctx, id, requester)
}

func (f *fakeFileService) Delete(ctx context.Context, id file.UUID, requester user.UUID) error {
	if f.DeleteFunc == nil {
		return errNotUsed
	}
	return f.DeleteFunc(ctx, id, requester)
}

type fakeShareService struct {
	AddSharedUsersFunc  func(ctx context.Context, id file.UUID, requester user.UUID, userIDs []user.UUID) error
	ListSharedUsersFunc func(ctx context.Context, id file.UUID, requester user.UUID) (user.Users, error)
	IssueShareLinkFunc  func(ctx context.Context, id file.UUID, requester user.UUID, hours float64) (file.ShareLink, error)
	OpenLinkFunc        func(ctx context.Context, token string, requester *user.UUID) (*file.File, io.ReadCloser, error)
}

func (f *fakeShareService) AddSharedUsers(ctx context.Context, id file.UUID, requester user.UUID, userIDs []user.UUID) error {
	if f.AddSharedUsersFunc == nil {
		return errNotUsed
	}
	return f.AddSharedUsersFunc(ctx, id, requester, userIDs)
}

func (f *fakeShareService) ListSharedUsers(ctx context.Context, id file.UUID, requester user.UUID) (user.Users, error) {
	if f.ListSharedUsersFunc == nil {
		return nil, errNotUsed
	}
	return f.ListSharedUsersFunc(ctx, id, requester)
}

func (f *fakeShareService) IssueShareLink(ctx context.Context, id file.UUID, requester user.UUID, hours float64) (file.ShareLink, error) {
	if f.IssueShareLinkFunc == nil {
		return file.ShareLink{}, errNotUsed
	}
	return f.IssueShareLinkFunc(ctx, id, requester, hours)
}

func (f *fakeShareService) OpenLink(ctx context.Context, token string, requester *user.UUID) (*file.File, io.ReadCloser, error) {
	if f.OpenLinkFunc == nil {
		return nil, nil, errNotUsed
	}
	return f.OpenLinkFunc(ctx, token, requester)
}

func newTestEngine() (*gin.Engine, *jwt.Service) {
	gin.SetMode(gin.TestMode)
	return gin.New(), jwt.New(testSecret)
}

// bearer returns an Authorization header value for userID.
func bearer(t *testing.T, jwtService *jwt.Service, userID uuid.UUID) string {
	t.Helper()
	tok, err := jwtService.GenerateJWT(userID.String(), time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doReq(t *testing.T, r *gin.Engine, method, path, auth string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		rd = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, rd)
	require.NoError(t, err)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type part struct {
	name string
	body string
}

func doMultipartReq(t *testing.T, r *gin.Engine, path, auth, field string, parts ...part) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		fw, err := w.CreateFormFile(field, p.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
