package grpcclient

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/example/fashion-police/internal/inference"
	"github.com/example/fashion-police/internal/logging"
	proto "github.com/example/fashion-police/proto"
)

func dial(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return grpc.DialContext(
		dialCtx,
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
}

// DialSegmenter returns a ready-to-use client for the clothing
// segmentation backend.
func DialSegmenter(ctx context.Context, addr string, logger *zap.Logger) (inference.Segmenter, *grpc.ClientConn, error) {
	conn, err := dial(ctx, addr)
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.dial_segmenter", "", err)
		logger.Error("failed to dial segmentation backend", zap.Error(wrapped), zap.String("addr", addr))
		return nil, nil, wrapped
	}
	return &grpcSegmenter{client: proto.NewClothingSegmenterClient(conn), logger: logger}, conn, nil
}

// DialEmbedder returns a ready-to-use client for the style embedding
// backend.
func DialEmbedder(ctx context.Context, addr string, logger *zap.Logger) (inference.Embedder, *grpc.ClientConn, error) {
	conn, err := dial(ctx, addr)
	if err != nil {
		wrapped := logging.NewOperationError("grpcclient.dial_embedder", "", err)
		logger.Error("failed to dial embedding backend", zap.Error(wrapped), zap.String("addr", addr))
		return nil, nil, wrapped
	}
	return &grpcEmbedder{client: proto.NewStyleEmbedderClient(conn), logger: logger}, conn, nil
}

type grpcSegmenter struct {
	client proto.ClothingSegmenterClient
	logger *zap.Logger
}

func (g *grpcSegmenter) Segment(ctx context.Context, imageBytes []byte) (*inference.ClassMap, error) {
	resp, err := g.client.Segment(ctx, &proto.SegmentRequest{ImageData: imageBytes})
	if err != nil {
		wrapped := inference.NewInferenceError("segmentation", err)
		g.logger.Error("segmentation backend call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	return &inference.ClassMap{
		Width:   int(resp.GetWidth()),
		Height:  int(resp.GetHeight()),
		Classes: resp.GetClassMap(),
	}, nil
}

type grpcEmbedder struct {
	client proto.StyleEmbedderClient
	logger *zap.Logger
}

func (g *grpcEmbedder) EmbedImage(ctx context.Context, imageBytes []byte) ([]float32, error) {
	resp, err := g.client.EmbedImage(ctx, &proto.EmbedImageRequest{ImageData: imageBytes})
	if err != nil {
		wrapped := inference.NewInferenceError("image embedding", err)
		g.logger.Error("image embedding call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	emb := resp.GetEmbedding().GetValues()
	if len(emb) == 0 {
		wrapped := inference.NewInferenceError("image embedding", fmt.Errorf("backend returned empty embedding"))
		g.logger.Error("image embedding call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	return emb, nil
}

func (g *grpcEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := g.client.EmbedTexts(ctx, &proto.EmbedTextsRequest{Texts: texts})
	if err != nil {
		wrapped := inference.NewInferenceError("text embedding", err)
		g.logger.Error("text embedding call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	if len(resp.GetEmbeddings()) != len(texts) {
		wrapped := inference.NewInferenceError("text embedding",
			fmt.Errorf("backend returned %d embeddings for %d texts", len(resp.GetEmbeddings()), len(texts)))
		g.logger.Error("text embedding call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	out := make([][]float32, len(resp.GetEmbeddings()))
	for i, e := range resp.GetEmbeddings() {
		out[i] = e.GetValues()
	}
	return out, nil
}
