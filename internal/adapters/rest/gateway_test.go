package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0sin/mikroman/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "routerpass",
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "ftp://router"})
	require.Error(t, err)

	client, err := NewClient(Config{BaseURL: "https://192.168.88.1/"})
	require.NoError(t, err)
	assert.Equal(t, "https://192.168.88.1", client.baseURL)
}

func TestListUsersDecodesRowsAndSendsBasicAuth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/user-manager/user", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", username)
		assert.Equal(t, "routerpass", password)

		_, _ = w.Write([]byte(`[
			{".id":"*1","name":"bob","group":"default","disabled":"no","shared-users":"2"},
			{".id":"*2","name":"alice","disabled":"yes","attributes":"Framed-IP-Address:10.0.0.7"}
		]`))
	}))

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, domain.User{Name: "bob", Group: "default", SharedUsers: 2}, users[0])
	assert.True(t, users[1].Disabled)
	assert.Equal(t, "Framed-IP-Address:10.0.0.7", users[1].Attributes)
}

func TestPutUserSendsWireRecord(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/rest/user-manager/user/bob", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{}`))
	}))

	err := client.PutUser(context.Background(), domain.User{
		Name:        "bob",
		Password:    "hunter2",
		Group:       "default",
		SharedUsers: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"name":         "bob",
		"password":     "hunter2",
		"group":        "default",
		"disabled":     "no",
		"shared-users": "1",
	}, got)
}

func TestDeleteUserProfilePassesRowIDVerbatim(t *testing.T) {
	requested := ""
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteUserProfile(context.Background(), "*1F"))
	assert.Equal(t, "/rest/user-manager/user-profile/*1F", requested)
}

func TestCreateProfileTargetsCollectionPath(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/rest/user-manager/profile", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{}`))
	}))

	err := client.CreateProfile(context.Background(), domain.Profile{
		Name:       "10GB-30D-1U-active",
		Validity:   "30d",
		StartsWhen: "assigned",
	})
	require.NoError(t, err)
	assert.Equal(t, "30d", got["validity"])
	assert.Equal(t, "assigned", got["starts-when"])
	assert.NotContains(t, got, ".id")
}

func TestNon2xxResponseBecomesRemoteError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("failure: already exists"))
	}))

	err := client.CreateLimitation(context.Background(), domain.Limitation{Name: "10GB-30D"})
	require.Error(t, err)

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.MethodPut, remote.Method)
	assert.Equal(t, "/rest/user-manager/limitation", remote.Path)
	assert.Equal(t, http.StatusConflict, remote.StatusCode)
	assert.Equal(t, "failure: already exists", remote.Body)
}

func TestTransportFailureBecomesRemoteError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.ListProfiles(context.Background())
	require.Error(t, err)

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Zero(t, remote.StatusCode)
	assert.Equal(t, "/rest/user-manager/profile", remote.Path)
}

func TestGetUserDecodesSingleRecord(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/user-manager/user/bob", r.URL.Path)
		_, _ = w.Write([]byte(`{".id":"*3","name":"bob","shared-users":"4"}`))
	}))

	user, err := client.GetUser(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 4, user.SharedUsers)
}

func TestRequestHonorsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.ListUsers(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
