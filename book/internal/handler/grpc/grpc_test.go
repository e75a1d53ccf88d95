package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taletrail/api"
	"taletrail/book/internal/controller/rating"
	"taletrail/book/internal/controller/recommendation"
	"taletrail/book/internal/seed"
	"taletrail/book/pkg/testutil"
	"taletrail/internal/grpcutil"
)

func newClient(t *testing.T) (api.BookServiceClient, *seed.Result) {
	t.Helper()
	store, res := testutil.NewScenarioStore(t)
	recs := recommendation.New(store, nil, recommendation.Config{}, tally.NoopScope, zap.NewNop())
	ratings := rating.New(store, nil, nil, zap.NewNop())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	api.RegisterBookServiceServer(srv, New(recs, ratings, tally.NoopScope, zap.NewNop()))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpcutil.Dial(lis.Addr().String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return api.NewBookServiceClient(conn), res
}

func TestGetRecommendations(t *testing.T) {
	client, res := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.GetRecommendations(ctx, &api.GetRecommendationsRequest{UserID: res.Users["reader"], Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "genre_based", resp.Strategy)
	require.Len(t, resp.Books, 2)
	assert.Equal(t, res.Books["F"], resp.Books[0].BookID)
	assert.Equal(t, "GB", resp.Books[0].CountryCode)
	assert.Equal(t, res.Books["C"], resp.Books[1].BookID)

	tests := []struct {
		name string
		req  *api.GetRecommendationsRequest
		want codes.Code
	}{
		{name: "zero user", req: &api.GetRecommendationsRequest{}, want: codes.InvalidArgument},
		{name: "unknown user", req: &api.GetRecommendationsRequest{UserID: 9999}, want: codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetRecommendations(ctx, tt.req)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestGetSimilarAndTrendingBooks(t *testing.T) {
	client, res := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	similar, err := client.GetSimilarBooks(ctx, &api.GetSimilarBooksRequest{BookID: res.Books["A"], Limit: 2})
	require.NoError(t, err)
	assert.True(t, similar.Fallback)
	assert.Len(t, similar.Books, 2)

	_, err = client.GetSimilarBooks(ctx, &api.GetSimilarBooksRequest{BookID: 9999})
	assert.Equal(t, codes.NotFound, status.Code(err))

	trending, err := client.GetTrendingBooks(ctx, &api.GetTrendingBooksRequest{})
	require.NoError(t, err)
	assert.Equal(t, "fallback_trending", trending.Strategy)
	assert.Equal(t, int32(7), trending.PeriodDays)
	require.NotEmpty(t, trending.Books)
	assert.Equal(t, res.Books["E"], trending.Books[0].BookID)
}

func TestRateBook(t *testing.T) {
	client, res := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.RateBook(ctx, &api.RateBookRequest{UserID: res.Users["critic"], BookID: res.Books["B"], Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4.0, resp.AverageRating)
	assert.Equal(t, int32(1), resp.RatingCount)

	tests := []struct {
		name string
		req  *api.RateBookRequest
		want codes.Code
	}{
		{name: "rating out of range", req: &api.RateBookRequest{UserID: res.Users["critic"], BookID: res.Books["B"], Rating: 7}, want: codes.InvalidArgument},
		{name: "unknown user", req: &api.RateBookRequest{UserID: 9999, BookID: res.Books["B"], Rating: 3}, want: codes.InvalidArgument},
		{name: "unknown book", req: &api.RateBookRequest{UserID: res.Users["critic"], BookID: 9999, Rating: 3}, want: codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.RateBook(ctx, tt.req)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}
