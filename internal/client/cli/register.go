package cli

import (
	"context"
	"errors"
	"fmt"
)

// ErrRejected is returned when the server answered with success=false.
var ErrRejected = errors.New("request rejected")

func (a *App) Register(ctx context.Context, login string, password []byte) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	resp, err := a.client.Register(ctx, registerRequest(login, password))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, resp.GetMessage())
	if !resp.GetSuccess() {
		return ErrRejected
	}
	return nil
}
