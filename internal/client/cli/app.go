package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/authservice/internal/client/config"
	"github.com/dmitrijs2005/authservice/internal/common"
	pb "github.com/dmitrijs2005/authservice/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const userAgent = "authservice-cli/1.0"

type App struct {
	config *config.Config
	client pb.AuthServiceClient
	health healthpb.HealthClient
	conn   io.Closer
	reader *bufio.Reader
	out    io.Writer
}

// NewApp prepares a client connection to c.ServerEndpointAddr. The
// connection is established lazily on the first call.
func NewApp(c *config.Config) (*App, error) {
	conn, err := grpc.NewClient(c.ServerEndpointAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(userAgent),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		config: c,
		client: pb.NewAuthServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
		conn:   conn,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run executes command ("register" or "login") and closes the connection.
func (a *App) Run(ctx context.Context, command string) error {
	defer a.conn.Close()

	var run func(context.Context, string, []byte) error
	switch command {
	case "register":
		run = a.Register
	case "login":
		run = a.Login
	default:
		return fmt.Errorf("unknown command %q: want register or login", command)
	}

	if err := a.checkServer(ctx); err != nil {
		return err
	}

	login, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return run(ctx, login, password)
}

func (a *App) credentials() (string, []byte, error) {
	login := a.config.Login
	if login == "" {
		var err error
		login, err = GetSimpleText(a.reader, "Enter login", a.out)
		if err != nil {
			return "", nil, err
		}
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return login, password, nil
}

func (a *App) checkServer(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	resp, err := a.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.AuthService_ServiceDesc.ServiceName})
	if err != nil {
		return fmt.Errorf("server unavailable: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("server not serving: %s", resp.GetStatus())
	}
	return nil
}
