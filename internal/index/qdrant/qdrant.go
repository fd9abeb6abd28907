// Package qdrant is the remote index backend. Each namespace maps to its own
// collection, created on first upsert with the dimension of the embedder.
package qdrant

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/spigell/hh-matcher/internal/embedding"
	"github.com/spigell/hh-matcher/internal/index"
	"github.com/spigell/hh-matcher/internal/logger"
)

const (
	defaultPort   = 6334
	defaultPrefix = "hh-matcher"
	// recordIDKey keeps the caller's id in the payload; point ids are UUIDs.
	recordIDKey = "_record_id"
)

// pointNamespace seeds the name-based UUIDs of points.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/spigell/hh-matcher/points"))

// Config describes how to reach Qdrant.
type Config struct {
	Host             string
	Port             int
	APIKey           string
	TLS              bool
	CollectionPrefix string
}

// Store implements index.Index on top of Qdrant's gRPC API.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	embedder    embedding.Embedder
	prefix      string
	logger      *zap.Logger

	ensured sync.Map
}

// New creates a Qdrant-backed index. The connection is established lazily by gRPC.
func New(cfg Config, embedder embedding.Embedder, log *zap.Logger) (*Store, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, fmt.Errorf("qdrant host is required: %w", index.ErrNotConfigured)
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("qdrant api key is required: %w", index.ErrNotConfigured)
	}
	if embedder == nil {
		return nil, errors.New("qdrant index requires an embedder")
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	transport := insecure.NewCredentials()
	if cfg.TLS {
		transport = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(transport),
		grpc.WithUnaryInterceptor(apiKeyInterceptor(apiKey)),
	)
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}

	prefix := strings.TrimSpace(cfg.CollectionPrefix)
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		embedder:    embedder,
		prefix:      prefix,
		logger:      logger.WithFields(log, zap.String("index", "qdrant"), zap.String("addr", addr)),
	}, nil
}

func (s *Store) Upsert(ctx context.Context, namespace string, e index.Entry) error {
	vector, err := s.embedOne(ctx, e.Text)
	if err != nil {
		return err
	}

	collection := s.collectionName(namespace)
	if err := s.ensureCollection(ctx, collection, len(vector)); err != nil {
		return err
	}

	wait := true
	_, err = s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: []*pb.PointStruct{{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(e.ID)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: vector}}},
			Payload: toPayload(e.ID, e.Metadata),
		}},
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert into %q: %w", collection, err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, namespace, query string, topK int) ([]index.Hit, error) {
	vector, err := s.embedOne(ctx, query)
	if err != nil {
		return nil, err
	}

	collection := s.collectionName(namespace)
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			// Nothing was ever indexed into this namespace.
			s.logger.Debug("collection not found", zap.String("collection", collection))
			return []index.Hit{}, nil
		}
		return nil, fmt.Errorf("qdrant search in %q: %w", collection, err)
	}

	hits := make([]index.Hit, 0, len(resp.GetResult()))
	for _, pt := range resp.GetResult() {
		id, fields := fromPayload(pt.GetPayload())
		if id == "" {
			id = pt.GetId().GetUuid()
		}
		hits = append(hits, index.Hit{
			ID:     id,
			Score:  float64(pt.GetScore()),
			Fields: fields,
		})
	}
	return hits, nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) collectionName(namespace string) string {
	return s.prefix + "_" + namespace
}

func (s *Store) ensureCollection(ctx context.Context, name string, dim int) error {
	if _, ok := s.ensured.Load(name); ok {
		return nil
	}

	_, err := s.collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: name})
	switch {
	case err == nil:
	case status.Code(err) == codes.NotFound:
		s.logger.Info("creating collection", zap.String("collection", name), zap.Int("dimension", dim))
		_, err = s.collections.Create(ctx, &pb.CreateCollection{
			CollectionName: name,
			VectorsConfig: &pb.VectorsConfig{Config: &pb.VectorsConfig_Params{Params: &pb.VectorParams{
				Size:     uint64(dim),
				Distance: pb.Distance_Cosine,
			}}},
		})
		if err != nil && status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("qdrant create collection %q: %w", name, err)
		}
	default:
		return fmt.Errorf("qdrant get collection %q: %w", name, err)
	}

	s.ensured.Store(name, struct{}{})
	return nil
}

func (s *Store) embedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want 1", len(vectors))
	}
	return vectors[0], nil
}

// pointID derives a stable point UUID so repeated upserts replace the same point.
func pointID(recordID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(recordID)).String()
}

func toPayload(recordID string, meta map[string]string) map[string]*pb.Value {
	payload := make(map[string]*pb.Value, len(meta)+1)
	for k, v := range meta {
		payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
	}
	payload[recordIDKey] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: recordID}}
	return payload
}

func fromPayload(payload map[string]*pb.Value) (string, map[string]string) {
	id := ""
	fields := make(map[string]string, len(payload))
	for k, v := range payload {
		if k == recordIDKey {
			id = v.GetStringValue()
			continue
		}
		fields[k] = v.GetStringValue()
	}
	return id, fields
}

func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

var _ index.Index = (*Store)(nil)
