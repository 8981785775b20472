package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/sys/execabs"
)

var ErrToken = errors.New("unable to acquire access token")

// token runs the token command (e.g. 'gcloud auth print-access-token') and wraps its output
// as a static bearer token. The token is short-lived but a run takes seconds so it is not
// refreshed.
func token(ctx context.Context, command string) (oauth2.TokenSource, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no token command", ErrToken)
	}

	var stderr bytes.Buffer

	cmd := execabs.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = &stderr

	stdout, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: '%v' failed (%v: %v)", ErrToken, command, err, msg)
		}

		return nil, fmt.Errorf("%w: '%v' failed (%v)", ErrToken, command, err)
	}

	accessToken := strings.TrimSpace(string(stdout))
	if accessToken == "" {
		return nil, fmt.Errorf("%w: '%v' returned an empty token", ErrToken, command)
	}

	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}), nil
}
