package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"google.golang.org/grpc/credentials"

	"taletrail/api"
	"taletrail/internal/grpcutil"
)

func main() {
	addr := flag.String("addr", "localhost:8082", "book service gRPC address")
	userID := flag.Int64("user", 0, "user to recommend books to")
	limit := flag.Int("limit", 10, "number of recommendations")
	cert := flag.String("cert", "", "TLS certificate file, plaintext when empty")
	key := flag.String("key", "", "TLS key file")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	if *userID <= 0 {
		log.Fatal("-user is required")
	}
	var creds credentials.TransportCredentials
	if *cert != "" {
		var err error
		if creds, err = grpcutil.GetX509Credentials(*cert, *key); err != nil {
			log.Fatalf("Failed to load credentials: %v", err)
		}
	}
	conn, err := grpcutil.Dial(*addr, creds)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := printRecommendations(ctx, api.NewBookServiceClient(conn), *userID, *limit); err != nil {
		log.Fatalf("Failed to get recommendations: %v", err)
	}
}

func printRecommendations(ctx context.Context, client api.BookServiceClient, userID int64, limit int) error {
	resp, err := client.GetRecommendations(ctx, &api.GetRecommendationsRequest{UserID: userID, Limit: int32(limit)})
	if err != nil {
		return err
	}
	fmt.Printf("Recommendations for user %d (%s):\n", resp.UserID, resp.Strategy)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tCOUNTRY\tRATING")
	for _, b := range resp.Books {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f (%d)\n", b.BookID, b.Title, b.Author, b.CountryCode, b.AverageRating, b.RatingCount)
	}
	return w.Flush()
}
