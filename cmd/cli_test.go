package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRouter is an in-memory stand-in for the RouterOS User Manager REST API.
type fakeRouter struct {
	mu          sync.Mutex
	users       map[string]map[string]string
	collections map[string][]map[string]string
	nextID      int
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{
		users: map[string]map[string]string{},
		collections: map[string][]map[string]string{
			"profile":            {},
			"limitation":         {},
			"profile-limitation": {},
			"user-profile":       {},
		},
	}
}

func (f *fakeRouter) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		rest := strings.TrimPrefix(r.URL.Path, "/rest/user-manager/")
		kind, id, _ := strings.Cut(rest, "/")

		if kind == "user" {
			f.serveUser(w, r, id)
			return
		}

		rows, ok := f.collections[kind]
		if !ok {
			http.NotFound(w, r)
			return
		}

		switch {
		case r.Method == http.MethodGet && id == "":
			writeJSON(w, rows)
		case r.Method == http.MethodPut && id == "":
			row := readRecord(r)
			f.nextID++
			row[".id"] = fmt.Sprintf("*%X", f.nextID)
			f.collections[kind] = append(rows, row)
			writeJSON(w, row)
		case r.Method == http.MethodDelete && id != "":
			kept := rows[:0]
			for _, row := range rows {
				if row[".id"] != id {
					kept = append(kept, row)
				}
			}
			f.collections[kind] = kept
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
}

func (f *fakeRouter) serveUser(w http.ResponseWriter, r *http.Request, name string) {
	switch {
	case r.Method == http.MethodGet && name == "":
		rows := make([]map[string]string, 0, len(f.users))
		for _, row := range f.users {
			rows = append(rows, row)
		}
		writeJSON(w, rows)
	case r.Method == http.MethodGet:
		row, ok := f.users[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `{"detail":"no such item"}`)
			return
		}
		writeJSON(w, row)
	case r.Method == http.MethodPut:
		row := readRecord(r)
		row["name"] = name
		f.users[name] = row
		writeJSON(w, row)
	case r.Method == http.MethodPatch:
		row, ok := f.users[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `{"detail":"no such item"}`)
			return
		}
		for key, value := range readRecord(r) {
			row[key] = value
		}
		writeJSON(w, row)
	case r.Method == http.MethodDelete:
		delete(f.users, name)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeRouter) addLink(kind string, row map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	row[".id"] = fmt.Sprintf("*%X", f.nextID)
	f.collections[kind] = append(f.collections[kind], row)
}

func (f *fakeRouter) links(kind string) []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.collections[kind]...)
}

func readRecord(r *http.Request) map[string]string {
	row := map[string]string{}
	_ = json.NewDecoder(r.Body).Decode(&row)
	return row
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func startFakeRouter(t *testing.T) *fakeRouter {
	t.Helper()

	router := newFakeRouter()
	server := httptest.NewServer(router.handler())
	t.Cleanup(server.Close)

	t.Setenv("MIKROMAN_ROUTER_BASE_URL", server.URL)
	t.Setenv("MIKROMAN_ROUTER_USERNAME", "admin")
	t.Setenv("MIKROMAN_ROUTER_PASSWORD", "router-secret")

	return router
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPlanApplyProvisionsEverything(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"plan", "apply",
		"--user", "alice",
		"--password", "pw",
		"--days", "30",
		"--cap-gib", "10",
		"--seats", "2",
		"--rate-limit", "10M/10M",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "applied plan 10GB-30D-2U-active to alice")

	user := router.users["alice"]
	require.NotNil(t, user)
	assert.Equal(t, "2", user["shared-users"])
	assert.Contains(t, user["attributes"], "Mikrotik-Rate-Limit:10M/10M")

	profiles := router.links("profile")
	require.Len(t, profiles, 1)
	assert.Equal(t, "10GB-30D-2U-active", profiles[0]["name"])
	assert.Equal(t, "30d", profiles[0]["validity"])
	assert.Equal(t, "assigned", profiles[0]["starts-when"])

	limitations := router.links("limitation")
	require.Len(t, limitations, 1)
	assert.Equal(t, "10GB-30D", limitations[0]["name"])
	assert.Equal(t, "10737418240B", limitations[0]["transfer-limit"])

	require.Len(t, router.links("profile-limitation"), 1)

	userProfiles := router.links("user-profile")
	require.Len(t, userProfiles, 1)
	assert.Equal(t, "alice", userProfiles[0]["user"])
	assert.Equal(t, "10GB-30D-2U-active", userProfiles[0]["profile"])
}

func TestPlanApplyIsIdempotent(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	for i := 0; i < 2; i++ {
		_, _, err := executeCLI(t, home,
			"plan", "apply", "--user", "alice", "--days", "30", "--cap-gib", "10",
		)
		require.NoError(t, err)
	}

	assert.Len(t, router.links("profile"), 1)
	assert.Len(t, router.links("limitation"), 1)
	assert.Len(t, router.links("profile-limitation"), 1)
	assert.Len(t, router.links("user-profile"), 1)
}

func TestPlanRenewReplacesExistingLinks(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "plan", "apply", "--user", "alice", "--days", "30", "--cap-gib", "10")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "plan", "renew", "--user", "alice", "--days", "60", "--cap-gib", "20")
	require.NoError(t, err)
	assert.Contains(t, stdout, "renewed alice onto plan 20GB-60D-1U-active")

	userProfiles := router.links("user-profile")
	require.Len(t, userProfiles, 1)
	assert.Equal(t, "20GB-60D-1U-active", userProfiles[0]["profile"])
}

func TestPlanApplyRequiresUserFlag(t *testing.T) {
	startFakeRouter(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "plan", "apply", "--days", "30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"user\" not set")
}

func TestUserListRendersStatuses(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	router.users["alice"] = map[string]string{"name": "alice", "shared-users": "2"}
	router.addLink("user-profile", map[string]string{"user": "alice", "profile": "10GB-30D-2U-active", "state": "running-active"})

	stdout, _, err := executeCLI(t, home, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "users: 1")
	assert.Contains(t, stdout, "alice")
	assert.Contains(t, stdout, "plan 10GB-30D-2U-active:")
}

func TestUserGetShowsAttributes(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	router.users["alice"] = map[string]string{
		"name":       "alice",
		"attributes": "Mikrotik-Rate-Limit:10M/10M,Framed-IP-Address:10.0.0.5",
	}

	stdout, _, err := executeCLI(t, home, "user", "get", "alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rate limit: 10M/10M")
	assert.Contains(t, stdout, "static ip: 10.0.0.5")
}

func TestUserGetUnknownUserFails(t *testing.T) {
	startFakeRouter(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "user", "get", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestUserDisableAndEnable(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	router.users["alice"] = map[string]string{"name": "alice"}

	_, _, err := executeCLI(t, home, "user", "disable", "alice")
	require.NoError(t, err)
	assert.Equal(t, "yes", router.users["alice"]["disabled"])

	_, _, err = executeCLI(t, home, "user", "enable", "alice")
	require.NoError(t, err)
	assert.Equal(t, "no", router.users["alice"]["disabled"])
}

func TestUserRemoveDeletesAccount(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	router.users["alice"] = map[string]string{"name": "alice"}

	_, _, err := executeCLI(t, home, "user", "remove", "alice")
	require.NoError(t, err)
	assert.Empty(t, router.users)
}

func TestProfileAndLimitationList(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	router.addLink("profile", map[string]string{"name": "10GB-30D-1U-active", "validity": "30d", "starts-when": "assigned"})
	router.addLink("limitation", map[string]string{"name": "10GB-30D", "transfer-limit": "10737418240B"})

	stdout, _, err := executeCLI(t, home, "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "10GB-30D-1U-active")
	assert.Contains(t, stdout, "validity=30d")

	stdout, _, err = executeCLI(t, home, "limitation", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "10GB-30D")
	assert.Contains(t, stdout, "transfer=10737418240B")
}

func TestPresetRoundTripAndApply(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home,
		"preset", "add", "monthly", "--days", "30", "--cap-gib", "10", "--rate-limit", "5M/5M",
	)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "preset", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "monthly")
	assert.Contains(t, stdout, "10GB-30D-1U-active")

	_, _, err = executeCLI(t, home, "plan", "apply", "--user", "bob", "--preset", "monthly")
	require.NoError(t, err)

	profiles := router.links("profile")
	require.Len(t, profiles, 1)
	assert.Equal(t, "10GB-30D-1U-active", profiles[0]["name"])
	assert.Contains(t, router.users["bob"]["attributes"], "Mikrotik-Rate-Limit:5M/5M")

	_, _, err = executeCLI(t, home, "preset", "remove", "monthly")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "plan", "apply", "--user", "bob", "--preset", "monthly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preset not found")
}

func TestPresetFlagsOverridePresetValues(t *testing.T) {
	router := startFakeRouter(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "preset", "add", "monthly", "--days", "30", "--cap-gib", "10")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "plan", "apply", "--user", "bob", "--preset", "monthly", "--days", "90")
	require.NoError(t, err)

	profiles := router.links("profile")
	require.Len(t, profiles, 1)
	assert.Equal(t, "10GB-90D-1U-active", profiles[0]["name"])
}

func TestAuthSetRequiresPasswordFlag(t *testing.T) {
	startFakeRouter(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "auth", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"password\" not set")
}

func TestVersionPrintsVersion(t *testing.T) {
	startFakeRouter(t)
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}
