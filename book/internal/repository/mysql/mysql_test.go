//go:build integration

package mysql

import (
	"context"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"taletrail/book/configs"
	"taletrail/book/pkg/model"
	"taletrail/book/pkg/testutil"
)

func startMySQL(t *testing.T) configs.MysqlConfig {
	t.Helper()
	if err := exec.Command("docker", "info").Run(); err != nil {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mysql:8.4",
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "root",
				"MYSQL_DATABASE":      "taletrail",
				"MYSQL_USER":          "taletrail",
				"MYSQL_PASSWORD":      "taletrail",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("3306/tcp"),
				wait.ForLog("port: 3306  MySQL Community Server"),
			).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate mysql container: %v", err)
		}
	})
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)
	p, err := strconv.Atoi(port.Port())
	require.NoError(t, err)
	return configs.MysqlConfig{Host: host, Port: p, User: "taletrail", Pass: "taletrail", Name: "taletrail"}
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo, err := New(ctx, startMySQL(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	// Applying the schema twice is a no-op.
	require.NoError(t, repo.Migrate(ctx, schema))

	res := testutil.Seed(t, repo, testutil.ScenarioCatalog())

	books, err := repo.GenreOverlapBooks(ctx, res.Users["reader"], 10)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, res.Books["F"], books[0].ID)
	assert.Equal(t, res.Books["C"], books[1].ID)

	trending, err := repo.TrendingBooks(ctx, 10)
	require.NoError(t, err)
	for _, b := range trending {
		assert.NotEqual(t, res.Books["G"], b.ID)
	}

	book := res.Books["B"]
	_, err = repo.UpsertRating(ctx, &model.Rating{UserID: res.Users["critic"], BookID: book, Value: 4, CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = repo.UpsertRating(ctx, &model.Rating{UserID: res.Users["fan"], BookID: book, Value: 5, CreatedAt: time.Now()})
	require.NoError(t, err)
	sum, err := repo.UpsertRating(ctx, &model.Rating{UserID: res.Users["critic"], BookID: book, Value: 2, CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, 3.5, sum.AverageRating)
	assert.Equal(t, 2, sum.RatingCount)

	require.NoError(t, repo.AssignGenres(ctx, book, []int64{res.Genres["Fantasy"]}))
	require.NoError(t, repo.AssignGenres(ctx, book, []int64{res.Genres["Fantasy"]}))

	page, total, err := repo.ListBooks(ctx, model.BookFilter{Search: "100%", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, res.Books["E"], page[0].ID)
}
