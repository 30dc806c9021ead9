package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brainly-app/brainly/internal/auth"
	"github.com/brainly-app/brainly/internal/db/memorystorage"
	"github.com/brainly-app/brainly/internal/logger"
	"github.com/brainly-app/brainly/internal/mockstorage"
	"github.com/brainly-app/brainly/internal/service"
)

const testSigningSecret = "router-test-secret"

func TestMain(m *testing.M) {
	if err := logger.Init("debug"); err != nil {
		panic(err)
	}
	m.Run()
}

func newTestServer(t *testing.T) (*httptest.Server, *auth.Auth) {
	t.Helper()

	db, err := memorystorage.New()
	require.NoError(t, err)

	theAuth := auth.New([]byte(testSigningSecret))
	handler := New(service.New(db, theAuth), theAuth)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv, theAuth
}

func signUp(t *testing.T, srv *httptest.Server, email, password, username string) {
	t.Helper()

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password, "username": username}).
		Post(srv.URL + "/api/v1/signup")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.JSONEq(t, `{"message":"Signed up!"}`, string(resp.Body()))
}

func signIn(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()

	var body struct {
		Token string `json:"token"`
	}
	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&body).
		Post(srv.URL + "/api/v1/signin")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NotEmpty(t, body.Token)

	return body.Token
}

func TestPostSignup(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("positive", func(t *testing.T) {
		signUp(t, srv, "a@x.com", "abcde", "alice")
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp, err := resty.New().R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"email": "a@x.com", "password": "abcde"}).
			Post(srv.URL + "/api/v1/signup")
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode())
		assert.JSONEq(t, `{"message":"User already exists"}`, string(resp.Body()))
	})

	invalidBodies := map[string]map[string]string{
		"malformed email":    {"email": "not-an-email", "password": "abcde"},
		"password too short": {"email": "b@x.com", "password": "abcd"},
		"missing password":   {"email": "b@x.com"},
		"missing email":      {"password": "abcde"},
	}
	for name, body := range invalidBodies {
		t.Run(name, func(t *testing.T) {
			resp, err := resty.New().R().
				SetHeader("Content-Type", "application/json").
				SetBody(body).
				Post(srv.URL + "/api/v1/signup")
			require.NoError(t, err)

			// Validation failures keep the historical 200 status.
			assert.Equal(t, http.StatusOK, resp.StatusCode())
			assert.Contains(t, string(resp.Body()), "Invalid Format")
			assert.Contains(t, string(resp.Body()), `"error"`)
		})
	}
}

func TestSignupWithMaximumLengthPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	password := strings.Repeat("p", 100)

	signUp(t, srv, "long@x.com", password, "longpass")
	signIn(t, srv, "long@x.com", password)
}

func TestGetPing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := resty.New().R().Get(srv.URL + "/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestPostSignin(t *testing.T) {
	srv, theAuth := newTestServer(t)
	signUp(t, srv, "a@x.com", "abcde", "alice")

	t.Run("positive", func(t *testing.T) {
		token := signIn(t, srv, "a@x.com", "abcde")

		userID, err := theAuth.ParseToken(token)
		require.NoError(t, err)
		assert.NotEmpty(t, userID)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, err := resty.New().R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"email": "nobody@x.com", "password": "abcde"}).
			Post(srv.URL + "/api/v1/signin")
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode())
		assert.JSONEq(t, `{"message":"User does not exist"}`, string(resp.Body()))
	})

	t.Run("wrong password keeps the historical 200 status", func(t *testing.T) {
		resp, err := resty.New().R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"email": "a@x.com", "password": "wrong"}).
			Post(srv.URL + "/api/v1/signin")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.JSONEq(t, `{"message":"Password is Incorrect"}`, string(resp.Body()))
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/content"},
		{http.MethodGet, "/api/v1/content"},
		{http.MethodDelete, "/api/v1/content"},
		{http.MethodPost, "/api/v1/brain/share"},
	}

	for _, request := range requests {
		t.Run(request.method+" "+request.path, func(t *testing.T) {
			req := resty.New().R()
			req.Method = request.method
			req.URL = srv.URL + request.path

			resp, err := req.Send()
			require.NoError(t, err)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode())
			assert.JSONEq(t, `{"message":"You are not logged in"}`, string(resp.Body()))
		})
	}
}

func TestContentLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	signUp(t, srv, "a@x.com", "abcde", "alice")
	token := signIn(t, srv, "a@x.com", "abcde")

	t.Run("create", func(t *testing.T) {
		resp, err := resty.New().R().
			SetHeader("Content-Type", "application/json").
			SetHeader("Authorization", token).
			SetBody(map[string]string{"link": "https://example.com", "title": "Example", "type": "article"}).
			Post(srv.URL + "/api/v1/content")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.JSONEq(t, `{"message":"Content Added"}`, string(resp.Body()))
	})

	var contentID string

	t.Run("list resolves the owner username", func(t *testing.T) {
		var body struct {
			Content []struct {
				ID    string   `json:"id"`
				Type  string   `json:"type"`
				Title string   `json:"title"`
				Link  string   `json:"link"`
				Tags  []string `json:"tags"`
				Owner struct {
					ID       string `json:"id"`
					Username string `json:"username"`
				} `json:"userId"`
			} `json:"content"`
		}
		resp, err := resty.New().R().
			SetHeader("Authorization", token).
			SetResult(&body).
			Get(srv.URL + "/api/v1/content")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())

		require.Len(t, body.Content, 1)
		item := body.Content[0]
		assert.Equal(t, "article", item.Type)
		assert.Equal(t, "Example", item.Title)
		assert.Equal(t, "https://example.com", item.Link)
		assert.Equal(t, []string{}, item.Tags)
		assert.Equal(t, "alice", item.Owner.Username)
		require.NotEmpty(t, item.ID)
		contentID = item.ID
	})

	t.Run("delete by another user is a no-op", func(t *testing.T) {
		signUp(t, srv, "b@x.com", "abcde", "bob")
		otherToken := signIn(t, srv, "b@x.com", "abcde")

		resp, err := resty.New().R().
			SetHeader("Content-Type", "application/json").
			SetHeader("Authorization", otherToken).
			SetBody(map[string]string{"contentId": contentID}).
			Delete(srv.URL + "/api/v1/content")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())

		listResp, err := resty.New().R().
			SetHeader("Authorization", token).
			Get(srv.URL + "/api/v1/content")
		require.NoError(t, err)
		assert.Contains(t, string(listResp.Body()), contentID)
	})

	t.Run("delete by the owner", func(t *testing.T) {
		resp, err := resty.New().R().
			SetHeader("Content-Type", "application/json").
			SetHeader("Authorization", token).
			SetBody(map[string]string{"contentId": contentID}).
			Delete(srv.URL + "/api/v1/content")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.JSONEq(t, `{"message":"Deleted"}`, string(resp.Body()))

		listResp, err := resty.New().R().
			SetHeader("Authorization", token).
			Get(srv.URL + "/api/v1/content")
		require.NoError(t, err)
		assert.NotContains(t, string(listResp.Body()), contentID)
	})
}

func TestBrainShare(t *testing.T) {
	srv, _ := newTestServer(t)
	signUp(t, srv, "a@x.com", "abcde", "alice")
	token := signIn(t, srv, "a@x.com", "abcde")

	createResp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", token).
		SetBody(map[string]string{"link": "https://example.com", "title": "Example", "type": "article"}).
		Post(srv.URL + "/api/v1/content")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, createResp.StatusCode())

	t.Run("share parameter must be truthy", func(t *testing.T) {
		for _, body := range []string{
			`{"share":false}`,
			`{"share":null}`,
			`{"share":0}`,
			`{"share":""}`,
			`{}`,
		} {
			resp, err := resty.New().R().
				SetHeader("Content-Type", "application/json").
				SetHeader("Authorization", token).
				SetBody(body).
				Post(srv.URL + "/api/v1/brain/share")
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode(), body)
			assert.JSONEq(t, `{"message":"Share parameter is required"}`, string(resp.Body()), body)
		}
	})

	var shareHash string

	t.Run("create share link", func(t *testing.T) {
		var body struct {
			Link string `json:"link"`
		}
		resp, err := resty.New().R().
			SetHeader("Content-Type", "application/json").
			SetHeader("Authorization", token).
			SetBody(`{"share":true}`).
			SetResult(&body).
			Post(srv.URL + "/api/v1/brain/share")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		require.NotEmpty(t, body.Link)
		shareHash = body.Link
	})

	t.Run("resolve share link without authentication", func(t *testing.T) {
		var body struct {
			Username string `json:"username"`
			Content  []struct {
				ID    string   `json:"id"`
				Type  string   `json:"type"`
				Link  string   `json:"link"`
				Title string   `json:"title"`
				Tags  []string `json:"tags"`
			} `json:"content"`
		}
		resp, err := resty.New().R().
			SetResult(&body).
			Get(fmt.Sprintf("%s/api/v1/brain/%s", srv.URL, shareHash))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())

		assert.Equal(t, "alice", body.Username)
		require.Len(t, body.Content, 1)
		assert.Equal(t, "article", body.Content[0].Type)
		assert.Equal(t, "https://example.com", body.Content[0].Link)
	})

	t.Run("unknown hash yields 404, never 200", func(t *testing.T) {
		resp, err := resty.New().R().
			Get(srv.URL + "/api/v1/brain/brain-does-not-exist")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
		assert.JSONEq(t, `{"message":"Share link is invalid or sharing is disabled"}`, string(resp.Body()))
	})
}

func TestShareCreationStorageError(t *testing.T) {
	db := &mockstorage.StorageMock{}
	db.On("InsertShareLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("insert failed"))

	theAuth := auth.New([]byte(testSigningSecret))
	handler := New(service.New(db, theAuth), theAuth)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	token, err := theAuth.BuildToken("some-user-id")
	require.NoError(t, err)

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", token).
		SetBody(`{"share":true}`).
		Post(srv.URL + "/api/v1/brain/share")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.JSONEq(t, `{"message":"Error creating share link"}`, string(resp.Body()))
	db.AssertExpectations(t)
}
