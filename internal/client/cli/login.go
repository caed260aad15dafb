package cli

import (
	"context"
	"fmt"
)

func (a *App) Login(ctx context.Context, login string, password []byte) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	resp, err := a.client.Login(ctx, loginRequest(login, password))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, resp.GetMessage())
	if !resp.GetSuccess() {
		return ErrRejected
	}

	fmt.Fprintf(a.out, "token_type: %s\nexpires_in_minutes: %d\naccess_token: %s\n",
		resp.GetTokenType(), resp.GetExpiresInMinutes(), resp.GetAccessToken())
	return nil
}
