package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taletrail/api"
	"taletrail/book/pkg/testserver"
	"taletrail/internal/grpcutil"
	"taletrail/pkg/discovery"
	"taletrail/pkg/discovery/memory"
)

const (
	bookServiceName = "book"
	mlServiceName   = "ml"

	bookGRPCAddress = "localhost:8082"
	bookHTTPAddress = "localhost:8081"
	mlAddress       = "localhost:8090"
)

func main() {
	log.Println("Starting the integration test")

	ctx := context.Background()
	registry := memory.NewRegistry()

	log.Println("Setting up the book service")
	svc, err := testserver.NewTestBookServices(ctx, registry, mlServiceName, zap.NewNop())
	if err != nil {
		log.Fatalf("build book service: %v", err)
	}
	defer svc.Close()
	books := svc.Seeded.Books
	users := svc.Seeded.Users

	mlSrv := startMLService(ctx, registry, users["critic"], []int64{books["E"], books["D"]})
	defer mlSrv.Close()
	grpcSrv := startBookGRPCService(ctx, registry, svc.GRPC)
	defer grpcSrv.GracefulStop()
	httpSrv := startBookHTTPService(svc.HTTP)
	defer httpSrv.Close()

	conn, err := grpcutil.Dial(bookGRPCAddress, nil)
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	client := api.NewBookServiceClient(conn)

	log.Println("Getting ML recommendations via gRPC")
	recs, err := client.GetRecommendations(ctx, &api.GetRecommendationsRequest{UserID: users["critic"], Limit: 5})
	if err != nil {
		log.Fatalf("get recommendations: %v", err)
	}
	if got, want := recs.Strategy, "ml_personalized"; got != want {
		log.Fatalf("strategy mismatch: got %v, want %v", got, want)
	}
	if diff := cmp.Diff([]int64{books["E"], books["D"]}, bookIDs(recs.Books)); diff != "" {
		log.Fatalf("ml recommendations mismatch (-want +got):\n%s", diff)
	}

	log.Println("Getting genre recommendations via gRPC when the ML service has none")
	recs, err = client.GetRecommendations(ctx, &api.GetRecommendationsRequest{UserID: users["reader"], Limit: 5})
	if err != nil {
		log.Fatalf("get recommendations: %v", err)
	}
	if got, want := recs.Strategy, "genre_based"; got != want {
		log.Fatalf("strategy mismatch: got %v, want %v", got, want)
	}
	if diff := cmp.Diff([]int64{books["F"], books["C"]}, bookIDs(recs.Books)); diff != "" {
		log.Fatalf("genre recommendations mismatch (-want +got):\n%s", diff)
	}

	log.Println("Checking unknown users are rejected")
	_, err = client.GetRecommendations(ctx, &api.GetRecommendationsRequest{UserID: 9999})
	if got, want := status.Code(err), codes.InvalidArgument; got != want {
		log.Fatalf("status mismatch: got %v, want %v", got, want)
	}

	log.Println("Saving ratings via gRPC")
	if _, err := client.RateBook(ctx, &api.RateBookRequest{UserID: users["newbie"], BookID: books["B"], Rating: 5}); err != nil {
		log.Fatalf("rate book: %v", err)
	}
	rated, err := client.RateBook(ctx, &api.RateBookRequest{UserID: users["fan"], BookID: books["B"], Rating: 2})
	if err != nil {
		log.Fatalf("rate book: %v", err)
	}
	if got, want := rated.AverageRating, 3.5; got != want {
		log.Fatalf("rating mismatch: got %v, want %v", got, want)
	}

	log.Println("Getting the rated book via HTTP")
	var details struct {
		Book struct {
			AverageRating float64 `json:"averageRating"`
			RatingCount   int     `json:"ratingCount"`
		} `json:"book"`
	}
	if err := getJSON(ctx, fmt.Sprintf("http://%s/api/books/%d", bookHTTPAddress, books["B"]), &details); err != nil {
		log.Fatalf("get book: %v", err)
	}
	if details.Book.AverageRating != 3.5 || details.Book.RatingCount != 2 {
		log.Fatalf("book aggregate mismatch: got %v/%v, want 3.5/2", details.Book.AverageRating, details.Book.RatingCount)
	}

	log.Println("Getting trending books via HTTP")
	var trending struct {
		RecommendationType string `json:"recommendationType"`
		Total              int    `json:"total"`
	}
	if err := getJSON(ctx, fmt.Sprintf("http://%s/api/recommendations/trending", bookHTTPAddress), &trending); err != nil {
		log.Fatalf("get trending: %v", err)
	}
	if trending.RecommendationType != "fallback_trending" || trending.Total == 0 {
		log.Fatalf("trending mismatch: got %+v", trending)
	}

	log.Println("Integration test execution successful")
}

func bookIDs(books []api.Book) []int64 {
	ids := make([]int64, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.BookID)
	}
	return ids
}

func getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// startMLService serves personalised recommendations for a single user
// and fails every other call.
func startMLService(ctx context.Context, registry discovery.Registry, userID int64, ranking []int64) *http.Server {
	log.Println("Starting fake ML service on " + mlAddress)
	mux := http.NewServeMux()
	mux.HandleFunc("/recommendations/user/", func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/recommendations/user/") != fmt.Sprint(userID) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		items := make([]map[string]any, 0, len(ranking))
		for i, id := range ranking {
			items = append(items, map[string]any{"book_id": id, "score": 1 / float64(i+1)})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"recommendations": items})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := &http.Server{Addr: mlAddress, Handler: mux, ReadHeaderTimeout: time.Second}
	l, err := net.Listen("tcp", mlAddress)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	register(ctx, registry, mlServiceName, mlAddress)
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()
	return srv
}

func startBookGRPCService(ctx context.Context, registry discovery.Registry, h api.BookServiceServer) *grpc.Server {
	log.Println("Starting book gRPC service on " + bookGRPCAddress)
	l, err := net.Listen("tcp", bookGRPCAddress)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	srv := grpc.NewServer()
	api.RegisterBookServiceServer(srv, h)
	register(ctx, registry, bookServiceName, bookGRPCAddress)
	go func() {
		if err := srv.Serve(l); err != nil {
			panic(err)
		}
	}()
	return srv
}

func startBookHTTPService(h http.Handler) *http.Server {
	log.Println("Starting book HTTP service on " + bookHTTPAddress)
	l, err := net.Listen("tcp", bookHTTPAddress)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: time.Second}
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()
	return srv
}

func register(ctx context.Context, registry discovery.Registry, serviceName string, addr string) {
	id := discovery.GenerateInstanceID(serviceName)
	if err := registry.Register(ctx, id, serviceName, addr); err != nil {
		panic(err)
	}
	go func() {
		for {
			if err := registry.ReportHealthyState(id, serviceName); err != nil {
				log.Printf("Failed to report healthy state: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	}()
}
