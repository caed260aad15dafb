package cli

import pb "github.com/dmitrijs2005/authservice/internal/proto"

func registerRequest(login string, password []byte) *pb.RegisterRequest {
	return &pb.RegisterRequest{Login: login, Password: string(password)}
}

func loginRequest(login string, password []byte) *pb.LoginRequest {
	return &pb.LoginRequest{Login: login, Password: string(password)}
}
