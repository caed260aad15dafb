// Package proto holds the protobuf contract of the authentication service and
// the Go code protoc generates from it.
//
// The service is registered as authservice.v1.AuthService and exposes two
// unary methods, Register and Login.
package proto

//go:generate protoc --proto_path=../.. --go_out=../.. --go_opt=paths=source_relative --go-grpc_out=../.. --go-grpc_opt=paths=source_relative internal/proto/auth.proto
