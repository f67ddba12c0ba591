package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/timewarpfm/timewarp/internal/server"
	"github.com/timewarpfm/timewarp/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const oauthFlowTimeout = 5 * time.Minute

// AuthLogin runs the delegated OAuth flow and caches the resulting session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	token, err := r.doOAuth(ctx)
	if err != nil {
		return err
	}

	if r.session != nil {
		if err := r.session.Save(token); err != nil {
			r.logger.Warnf("failed to cache session: %v", err)
		} else {
			r.writePlain("✓ Session saved to %s\n", r.session.Path())
		}
	}

	return r.writePlainln("✓ Authorization successful")
}

// AuthStatus reports whether a cached session exists and still works.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return r.writePlain("✗ No session cache configured\n")
	}

	token, err := r.session.Load()
	if err != nil {
		return err
	}
	if token == nil {
		return r.writePlain("✗ Not logged in (no cached session at %s)\n", r.session.Path())
	}

	if err := r.requireSpotify(); err != nil {
		return err
	}
	if err := r.spotify.Authenticate(ctx, token); err != nil {
		return err
	}

	user, err := r.spotify.CurrentUser(ctx)
	if err != nil {
		r.writePlain("✗ Cached session is no longer valid: %v\n", err)
		return nil
	}

	r.writePlain("✓ Logged in as %s", user.ID)
	if user.DisplayName != "" {
		r.writePlain(" (%s)", user.DisplayName)
	}
	return r.writePlain("\n")
}

// AuthLogout deletes the cached session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return r.writePlain("✗ No session cache configured\n")
	}

	if err := r.session.Clear(); err != nil {
		return err
	}

	return r.writePlain("✓ Session removed\n")
}

// ensureSession authenticates the Spotify service with a delegated user
// token, reusing the cached session when one exists and running the full
// OAuth flow otherwise.
func (r *Runner) ensureSession(ctx context.Context) error {
	if r.session != nil {
		token, err := r.session.Load()
		if err != nil {
			r.logger.Warnf("ignoring unreadable session cache: %v", err)
		}
		if token != nil {
			return r.spotify.Authenticate(ctx, token)
		}
	}

	token, err := r.doOAuth(ctx)
	if err != nil {
		return err
	}

	if r.session != nil {
		if err := r.session.Save(token); err != nil {
			r.logger.Warnf("failed to cache session: %v", err)
		}
	}

	return r.spotify.Authenticate(ctx, token)
}

// doOAuth executes the authorization-code flow with a local callback server.
func (r *Runner) doOAuth(ctx context.Context) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	authURL := r.spotify.GetAuthURL(state)
	handler := server.NewOAuthHandler(r.spotify.GetOAuthConfig(), state)
	router := server.NewRouter()
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{Addr: addr, Handler: router}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("waiting for OAuth callback at %v", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	r.writePlain("Opening browser for authorization...\n\n%s\n\n", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser, visit the URL manually: %v", err)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return nil, err
		}
		return result.Token, nil
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: callback server: %v", shared.ErrAuthFailed, err)
	case <-time.After(oauthFlowTimeout):
		return nil, fmt.Errorf("%w: timed out waiting for authorization", shared.ErrAuthFailed)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
