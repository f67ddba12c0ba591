package main

import (
	"context"
	"errors"

	"github.com/timewarpfm/timewarp/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search resolves a single (title, artist) pair to a track URI.
//
// Uses the same combined free-text query as the pipeline, so it doubles as a
// way to preview what a chart entry would resolve to.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	title := cmd.String("title")
	artist := cmd.String("artist")

	token, err := r.spotify.ClientToken(ctx)
	if err != nil {
		return err
	}

	uri, err := r.spotify.SearchTrack(ctx, token, title, artist)
	if err != nil {
		if errors.Is(err, shared.ErrNoMatch) {
			return r.writePlain("No match found for %s - %s\n", artist, title)
		}
		return err
	}

	return r.writePlain("%s\n", uri)
}
