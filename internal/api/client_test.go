package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ba4b0d/printquote/internal/quote"
	"github.com/ba4b0d/printquote/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.MemStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemStore()
	return New(srv.URL, store, nil), store
}

func TestMaterialGroups(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/material-groups", r.URL.Path)
		io.WriteString(w, `{"material_groups":[
			{"group_id":"pla_fast","group_name":"PLA Fast","options":[{"id":"pla_black","label":"مشکی"}]}
		]}`)
	}))

	groups, err := client.MaterialGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "pla_fast", groups[0].GroupID)
	require.Len(t, groups[0].Options, 1)
	assert.Equal(t, "pla_black", groups[0].Options[0].ID)
}

func TestMachines(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/machines", r.URL.Path)
		io.WriteString(w, `[{"id":"ender3","name":"Ender 3"},{"id":"x1c","name":"X1 Carbon"}]`)
	}))

	machines, err := client.Machines(context.Background())
	require.NoError(t, err)
	require.Len(t, machines, 2)
	assert.Equal(t, "Ender 3", machines[0].Name)
}

func TestEstimateMultipart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/estimate", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "pla_black", r.FormValue("material_id"))
		assert.Equal(t, "fine", r.FormValue("quality"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "benchy.stl", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "solid benchy", string(data))

		io.WriteString(w, `{"volume_cm3":12.5,"bbox_mm":{"x":60,"y":31,"z":48},
			"estimated_grams":15.4,"estimated_minutes":47,"warnings":["Mesh not watertight; used convex-hull volume (approx)."]}`)
	}))

	est, err := client.Estimate(context.Background(), EstimateUpload{
		FileName:   "benchy.stl",
		File:       strings.NewReader("solid benchy"),
		MaterialID: "pla_black",
		Quality:    "fine",
	})
	require.NoError(t, err)
	assert.Equal(t, 15.4, est.EstimatedGrams)
	assert.Equal(t, 47.0, est.EstimatedMinutes)
	assert.Equal(t, 60.0, est.BBoxMM.X)
	assert.Len(t, est.Warnings, 1)
}

func TestEstimateDefaultsQuality(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "normal", r.FormValue("quality"))
		io.WriteString(w, `{"estimated_grams":1,"estimated_minutes":1}`)
	}))

	_, err := client.Estimate(context.Background(), EstimateUpload{
		FileName:   "part.3mf",
		File:       strings.NewReader("x"),
		MaterialID: "m",
	})
	require.NoError(t, err)
}

func TestQuoteSendsBearerAndDecodesBreakdown(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req quote.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Qty)
		assert.Equal(t, 120.0, req.FilamentGrams)

		io.WriteString(w, `{"Matrial_t":50000,"power_t":2000,"downturn_t":1000,
			"Maintenance_t":300,"Coloring_t":0,"overhead_t":5330,"Extras":0,"Total":58630}`)
	}))
	require.NoError(t, store.Set(session.Credential{Token: "tok-1", Role: session.RoleStaff}))

	bd, err := client.Quote(context.Background(), quote.Request{
		MaterialID: "m", MachineID: "mc", Qty: 2,
		FilamentGrams: 120, PrintTimeMinutes: 180,
	})
	require.NoError(t, err)
	assert.Equal(t, 58630.0, bd.Total)
	assert.Equal(t, 50000.0, bd.MaterialT)
}

func TestServerMessageSurfacedVerbatim(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"Unknown material_id"}`)
	}))

	_, err := client.Quote(context.Background(), quote.Request{MaterialID: "x", MachineID: "y", Qty: 1})
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Unknown material_id", apiErr.Message)
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"invalid credentials"}`)
			return
		}
		io.WriteString(w, `{"access_token":"tok-9","role":"admin","username":"omid"}`)
	}))

	cred, err := client.Login(context.Background(), "omid", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-9", cred.Token)
	assert.Equal(t, session.RoleAdmin, cred.Role)

	_, err = client.Login(context.Background(), "omid", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestMeUnauthorized(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer good" {
			io.WriteString(w, `{}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))

	require.NoError(t, store.Set(session.Credential{Token: "good", Role: session.RoleStaff}))
	assert.NoError(t, client.Me(context.Background()))

	require.NoError(t, store.Set(session.Credential{Token: "stale", Role: session.RoleStaff}))
	assert.ErrorIs(t, client.Me(context.Background()), ErrUnauthorized)
}

func TestAdminConfigRoundTrip(t *testing.T) {
	var stored []byte
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/config", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{"markup_pct":0.1}`)
		case http.MethodPut:
			stored, _ = io.ReadAll(r.Body)
		}
	}))

	cfg, err := client.AdminConfig(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"markup_pct":0.1}`, string(cfg))

	require.NoError(t, client.PutAdminConfig(context.Background(), json.RawMessage(`{"markup_pct":0.2}`)))
	assert.JSONEq(t, `{"markup_pct":0.2}`, string(stored))

	err = client.PutAdminConfig(context.Background(), json.RawMessage(`not json`))
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true}`)
	}))
	assert.NoError(t, client.Health(context.Background()))

	down, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false}`)
	}))
	assert.Error(t, down.Health(context.Background()))
}
