package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amadren/relkit/internal/catalog"
	"github.com/amadren/relkit/internal/engine/sqlite"
	"github.com/amadren/relkit/internal/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	conn := sqlite.New(":memory:")
	require.NoError(t, conn.Open(context.Background()))
	t.Cleanup(func() { conn.Close() })

	ddl := []string{
		`CREATE TABLE Users (Id INTEGER PRIMARY KEY, Name TEXT NOT NULL)`,
		`CREATE TABLE Orders (
			Id INTEGER PRIMARY KEY,
			UserId INTEGER NOT NULL REFERENCES Users(Id)
		)`,
	}
	for _, stmt := range ddl {
		_, err := conn.ExecuteNonQuery(context.Background(), stmt, nil)
		require.NoError(t, err)
	}

	log := logger.New(&logger.Config{Level: "error", Format: "json", Output: io.Discard})
	srv := httptest.NewServer(newRouter(catalog.NewIntrospector(conn), 5*time.Second, log))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	status := getJSON(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSchemaEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Entities      []catalog.Entity       `json:"entities"`
		Relationships []catalog.Relationship `json:"relationships"`
	}
	status := getJSON(t, srv.URL+"/schema", &body)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, body.Entities, 2)
	assert.Equal(t, "Orders", body.Entities[0].Name)
	assert.Equal(t, "Users", body.Entities[1].Name)

	require.Len(t, body.Relationships, 1)
	assert.Equal(t, catalog.Relationship{
		FromEntity: "Orders", ToEntity: "Users", Key: "UserId",
	}, body.Relationships[0])
}

func TestTableEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var entity catalog.Entity
	status := getJSON(t, srv.URL+"/tables/Users", &entity)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Users", entity.Name)
	assert.Contains(t, entity.Attributes, "Name")

	var errBody map[string]string
	status = getJSON(t, srv.URL+"/tables/Nope", &errBody)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRelationshipsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var rels []catalog.Relationship
	status := getJSON(t, srv.URL+"/relationships", &rels)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, rels, 1)
	assert.Equal(t, "UserId", rels[0].Key)
}
