// Package grpcserver exposes the motd gRPC API handlers.
package grpcserver

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/and161185/motd/internal/convert"
	"github.com/and161185/motd/internal/errs"
	"github.com/and161185/motd/internal/requestid"
	"github.com/and161185/motd/internal/service"
)

const (
	// Challenge is sent in the www-authenticate header on every rejection.
	Challenge = `Basic realm="motd"`

	internalMsg = "internal error"
)

// Server wires the motd service into gRPC handlers.
type Server struct {
	motd service.MotdService
	log  *zap.Logger
}

var _ MotdServer = (*Server)(nil)

// New constructs a gRPC server with injected services.
func New(motd service.MotdService, log *zap.Logger) *Server {
	return &Server{motd: motd, log: log}
}

// Read returns a random message, or {"empty": true} when there is none.
func (s *Server) Read(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	m, ok, err := s.motd.ReadMotd(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !ok {
		return convert.ToProtoEmpty(), nil
	}
	return convert.ToProtoMessage(m), nil
}

// Write appends req.Value as a new message. Credentials come from the
// "authorization: Basic base64(userid:code)" metadata entry.
func (s *Server) Write(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID, code, err := basicCredsFromMD(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, errs.ErrInvalidCredentials)
	}
	m, err := s.motd.WriteMotd(ctx, userID, code, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	SetUserID(ctx, m.Creator)
	return convert.ToProtoMessage(m), nil
}

// toStatus maps service errors to gRPC statuses without leaking causes.
func (s *Server) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrInvalidCredentials):
		// sent eagerly so the challenge is not folded into a trailers-only response
		_ = grpc.SendHeader(ctx, metadata.Pairs("www-authenticate", Challenge))
		return status.Error(codes.Unauthenticated, errs.ErrInvalidCredentials.Error())
	case errors.Is(err, errs.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err), zap.String("request_id", requestid.From(ctx)))
		return status.Error(codes.Internal, internalMsg)
	}
}

func basicCredsFromMD(ctx context.Context) (userID, code string, err error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", "", errors.New("no metadata")
	}
	for _, v := range md.Get("authorization") {
		v = strings.TrimSpace(v)
		if len(v) < 6 || !strings.EqualFold(v[:6], "basic ") {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(v[6:]))
		if err != nil {
			return "", "", errors.New("bad basic credentials")
		}
		id, c, ok := strings.Cut(string(raw), ":")
		if !ok || id == "" {
			return "", "", errors.New("bad basic credentials")
		}
		return id, c, nil
	}
	return "", "", errors.New("no basic credentials")
}

// BasicAuthValue encodes userID and code for the authorization metadata entry.
func BasicAuthValue(userID, code string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(userID+":"+code))
}
