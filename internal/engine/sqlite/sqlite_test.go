package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amadren/relkit/internal/catalog"
	"github.com/amadren/relkit/internal/errs"
	"github.com/amadren/relkit/internal/shape"
	"github.com/amadren/relkit/internal/statement"
)

// newTestConn opens an in-memory database with the demo schema: Users,
// and Orders referencing Users on UserId.
func newTestConn(t *testing.T) *Connection {
	t.Helper()

	conn := New(":memory:")
	require.NoError(t, conn.Open(context.Background()))
	t.Cleanup(func() { conn.Close() })

	ddl := []string{
		`CREATE TABLE Users (
			Id INTEGER PRIMARY KEY,
			Name TEXT NOT NULL,
			Address TEXT
		)`,
		`CREATE TABLE Orders (
			Id INTEGER PRIMARY KEY,
			UserId INTEGER NOT NULL REFERENCES Users(Id),
			Total REAL NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		_, err := conn.ExecuteNonQuery(context.Background(), stmt, nil)
		require.NoError(t, err)
	}
	return conn
}

func userGenerator(t *testing.T) *statement.Generator {
	t.Helper()

	users, err := shape.NewBuilder().
		Key("Id", shape.Int).
		Field("Name", shape.String).
		Field("Address", shape.String).
		Build()
	require.NoError(t, err)

	gen := statement.NewGenerator()
	gen.SetShape(users)
	gen.SetTable("Users")
	return gen
}

func TestOpenClose_Idempotent(t *testing.T) {
	ctx := context.Background()
	conn := New(":memory:")

	// Close before Open is a no-op.
	require.NoError(t, conn.Close())

	require.NoError(t, conn.Open(ctx))
	require.NoError(t, conn.Open(ctx)) // second Open is a no-op

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close()) // second Close is a no-op
}

func TestExecute_NotOpen(t *testing.T) {
	ctx := context.Background()
	conn := New(":memory:")

	_, err := conn.ExecuteQuery(ctx, "SELECT 1", nil)
	assert.True(t, errs.IsNotConfigured(err))

	_, err = conn.ExecuteNonQuery(ctx, "SELECT 1", nil)
	assert.True(t, errs.IsNotConfigured(err))

	_, err = conn.ExecuteScalar(ctx, "SELECT 1", nil)
	assert.True(t, errs.IsNotConfigured(err))
}

func TestExecutor_CRUDRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := newTestConn(t)
	gen := userGenerator(t)

	// Insert
	insertSQL, err := gen.Insert()
	require.NoError(t, err)

	params, err := gen.MapParameters(map[string]any{
		"Id":      1,
		"Name":    "John Doe",
		"Address": "123 Elm Street",
	})
	require.NoError(t, err)

	affected, err := conn.ExecuteNonQuery(ctx, insertSQL, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// Scalar
	count, err := conn.ExecuteScalar(ctx, `SELECT COUNT(*) FROM "Users"`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Select by key
	selectSQL, err := gen.Select(true)
	require.NoError(t, err)

	keyParams, err := gen.MapKey(map[string]any{"Id": 1})
	require.NoError(t, err)

	result, err := conn.ExecuteQuery(ctx, selectSQL, keyParams)
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Name", "Address"}, result.Columns)

	row, ok := result.First()
	require.True(t, ok)
	assert.Equal(t, int64(1), row["Id"])
	assert.Equal(t, "John Doe", row["Name"])
	assert.Equal(t, "123 Elm Street", row["Address"])

	// Update everything but the key
	updateSQL, err := gen.Update()
	require.NoError(t, err)

	updated, err := gen.MapParameters(map[string]any{
		"Id":      1,
		"Name":    "John Doe",
		"Address": "9 Oak Avenue",
	})
	require.NoError(t, err)

	affected, err = conn.ExecuteNonQuery(ctx, updateSQL, updated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	addr, err := conn.ExecuteScalar(ctx, `SELECT "Address" FROM "Users" WHERE "Id" = 1`, nil)
	require.NoError(t, err)
	assert.Equal(t, "9 Oak Avenue", addr)

	// Delete by key
	deleteSQL, err := gen.Delete()
	require.NoError(t, err)

	affected, err = conn.ExecuteNonQuery(ctx, deleteSQL, keyParams)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	count, err = conn.ExecuteScalar(ctx, `SELECT COUNT(*) FROM "Users"`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestExecuteQuery_RoundTripParameters(t *testing.T) {
	ctx := context.Background()
	conn := newTestConn(t)
	gen := userGenerator(t)

	insertSQL, err := gen.Insert()
	require.NoError(t, err)
	params, err := gen.MapParameters(map[string]any{
		"Id": 2, "Name": "Jane Roe", "Address": nil,
	})
	require.NoError(t, err)

	_, err = conn.ExecuteNonQuery(ctx, insertSQL, params)
	require.NoError(t, err)

	// Map the row read back from the database straight into parameters
	// for the next statement: names line up with no translation.
	selectSQL, err := gen.Select(false)
	require.NoError(t, err)
	result, err := conn.ExecuteQuery(ctx, selectSQL, nil)
	require.NoError(t, err)

	row, ok := result.First()
	require.True(t, ok)

	again, err := gen.MapParameters(row)
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Name", "Address"}, again.Names())

	address, ok := again.Get("Address")
	require.True(t, ok)
	assert.True(t, address.IsNull())
}

func TestExecuteQuery_BadSQL(t *testing.T) {
	conn := newTestConn(t)

	_, err := conn.ExecuteQuery(context.Background(), "SELECT FROM WHERE", nil)
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
}

func TestCatalogSource_Tables(t *testing.T) {
	conn := newTestConn(t)

	tables, err := conn.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Orders", "Users"}, tables)
}

func TestCatalogSource_Columns(t *testing.T) {
	conn := newTestConn(t)

	cols, err := conn.Columns(context.Background(), "Users")
	require.NoError(t, err)
	assert.Equal(t, []catalog.Column{
		{Name: "Id", DataType: "INTEGER", NotNull: false}, // INTEGER PRIMARY KEY admits NULL rowid alias rules
		{Name: "Name", DataType: "TEXT", NotNull: true},
		{Name: "Address", DataType: "TEXT", NotNull: false},
	}, cols)
}

func TestCatalogSource_ForeignKeys(t *testing.T) {
	conn := newTestConn(t)
	ctx := context.Background()

	fks, err := conn.ForeignKeys(ctx, "Orders")
	require.NoError(t, err)
	assert.Equal(t, []catalog.ForeignKeyRef{{Table: "Users", Column: "UserId"}}, fks)

	none, err := conn.ForeignKeys(ctx, "Users")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIntrospector_AgainstSQLite(t *testing.T) {
	conn := newTestConn(t)
	ctx := context.Background()
	in := catalog.NewIntrospector(conn)

	entities, err := in.LoadEntities(ctx)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	// Idempotent against an unchanged database.
	again, err := in.LoadEntities(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, entities, again)

	rels, err := in.LoadRelationships(ctx)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Relationship{
		{FromEntity: "Orders", ToEntity: "Users", Key: "UserId"},
	}, rels)
}

func TestIntrospector_ClosedConnection(t *testing.T) {
	conn := newTestConn(t)
	require.NoError(t, conn.Close())

	in := catalog.NewIntrospector(conn)

	entities, err := in.LoadEntities(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
	assert.Nil(t, entities)
}
