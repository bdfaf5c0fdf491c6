// internal/play/source.go
//
// Candidate phrase sources. A source turns one Last.fm listening profile
// into the raw strings a secret phrase is chosen from; which catalog slice
// it reads (albums, artists or tracks) is picked by configuration.

package play

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/hydehsmf/trackle/internal/lastfm"
)

// CandidateSource supplies raw candidate phrases for a user.
type CandidateSource interface {
	Candidates(ctx context.Context, user string) ([]string, error)
}

// NewSource picks a source by kind: "albums" (default), "artists" or
// "tracks".
func NewSource(kind string, client *lastfm.Client, period lastfm.Period, limit int) (CandidateSource, error) {
	switch kind {
	case "", "albums":
		return &AlbumSource{Client: client, Period: period, Limit: limit}, nil
	case "artists":
		return &ArtistSource{Client: client, Period: period, Limit: limit}, nil
	case "tracks":
		return &TrackSource{Client: client, Period: period, Limit: limit}, nil
	default:
		return nil, fmt.Errorf("unknown phrase source %q", kind)
	}
}

// AlbumSource draws candidates from the user's top album names.
type AlbumSource struct {
	Client *lastfm.Client
	Period lastfm.Period
	Limit  int
}

func (s *AlbumSource) Candidates(ctx context.Context, user string) ([]string, error) {
	req := s.Client.TopAlbums(user)
	if s.Period != "" {
		req = req.Period(s.Period)
	}
	if s.Limit > 0 {
		req = req.Limit(s.Limit)
	}
	top, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(top.Albums, func(a lastfm.Album, _ int) string { return a.Name }), nil
}

// ArtistSource draws candidates from the user's top artist names.
type ArtistSource struct {
	Client *lastfm.Client
	Period lastfm.Period
	Limit  int
}

func (s *ArtistSource) Candidates(ctx context.Context, user string) ([]string, error) {
	req := s.Client.TopArtists(user)
	if s.Period != "" {
		req = req.Period(s.Period)
	}
	if s.Limit > 0 {
		req = req.Limit(s.Limit)
	}
	top, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(top.Artists, func(a lastfm.Artist, _ int) string { return a.Name }), nil
}

// TrackSource draws candidates from the user's top track names.
type TrackSource struct {
	Client *lastfm.Client
	Period lastfm.Period
	Limit  int
}

func (s *TrackSource) Candidates(ctx context.Context, user string) ([]string, error) {
	req := s.Client.TopTracks(user)
	if s.Period != "" {
		req = req.Period(s.Period)
	}
	if s.Limit > 0 {
		req = req.Limit(s.Limit)
	}
	top, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(top.Tracks, func(t lastfm.Track, _ int) string { return t.Name }), nil
}
