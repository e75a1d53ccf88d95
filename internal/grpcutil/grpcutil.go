package grpcutil

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"taletrail/pkg/discovery"
)

// ServiceConnection attempts to select a random service instance
// and returns a gRPC connection to it. Nil creds mean a plaintext connection.
func ServiceConnection(ctx context.Context, serviceName string, registry discovery.Registry, creds credentials.TransportCredentials) (*grpc.ClientConn, error) {
	addrs, err := registry.ServiceAddresses(ctx, serviceName)
	if err != nil {
		return nil, err
	}
	return Dial(addrs[rand.Intn(len(addrs))], creds)
}

// Dial creates a client connection to addr that exchanges JSON-encoded messages.
func Dial(addr string, creds credentials.TransportCredentials) (*grpc.ClientConn, error) {
	if creds == nil {
		creds = insecure.NewCredentials()
	}
	return grpc.NewClient(addr,
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(JSONCodecName)),
	)
}

// GetX509Credentials reads cert and key files and prepares TLS credentials.
func GetX509Credentials(c string, k string) (credentials.TransportCredentials, error) {
	certBytes, err := os.ReadFile(c)
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}
	certPool := x509.NewCertPool()
	if !certPool.AppendCertsFromPEM(certBytes) {
		return nil, errors.New("append certificate to pool")
	}
	cert, err := tls.LoadX509KeyPair(c, k)
	if err != nil {
		return nil, fmt.Errorf("load key pair: %w", err)
	}
	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      certPool,
		MinVersion:   tls.VersionTLS12,
	}), nil
}
