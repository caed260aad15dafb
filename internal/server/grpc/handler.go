package grpc

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/dmitrijs2005/authservice/internal/common"
	pb "github.com/dmitrijs2005/authservice/internal/proto"
	"github.com/dmitrijs2005/authservice/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterReply, error) {
	result, err := s.credentials.Register(ctx, req.GetLogin(), req.GetPassword())
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.RegisterReply{Success: result.Success, Message: result.Message}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginReply, error) {
	result, err := s.credentials.Login(ctx, services.LoginRequest{
		Login:     req.GetLogin(),
		Password:  req.GetPassword(),
		RemoteIP:  remoteIP(ctx),
		UserAgent: userAgent(ctx),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	reply := &pb.LoginReply{Success: result.Success, Message: result.Message}
	if result.Success {
		reply.AccessToken = result.AccessToken
		reply.TokenType = result.TokenType
		reply.ExpiresInMinutes = int32(result.ExpiresInMinutes)
	}
	return reply, nil
}

// toStatus maps service errors to gRPC statuses without exposing their text.
func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}

func firstMetadataValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// remoteIP returns the client address: the first x-forwarded-for hop when a
// proxy set one, otherwise the host part of the peer address.
func remoteIP(ctx context.Context) string {
	if fwd := firstMetadataValue(ctx, common.ForwardedForHeaderName); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	if tcp, ok := p.Addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return ""
	}
	return host
}

func userAgent(ctx context.Context) string {
	return firstMetadataValue(ctx, common.UserAgentHeaderName)
}
