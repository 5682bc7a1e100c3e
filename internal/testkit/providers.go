package testkit

import (
	"context"
	"errors"

	"whohub/internal/ports"
)

// ErrProviderDown simulates an unreachable external source.
var ErrProviderDown = errors.New("provider unavailable")

type StaticReverseImageProvider struct {
	Result ports.ReverseImageResult
	Err    error
}

func (p StaticReverseImageProvider) Search(ctx context.Context, imageURL string) (ports.ReverseImageResult, error) {
	if p.Err != nil {
		return ports.ReverseImageResult{}, p.Err
	}
	return p.Result, nil
}

type StaticImageAssessor struct {
	Result ports.ImageAssessment
	Err    error
}

func (p StaticImageAssessor) Assess(ctx context.Context, imageURL string) (ports.ImageAssessment, error) {
	if p.Err != nil {
		return ports.ImageAssessment{}, p.Err
	}
	return p.Result, nil
}

type StaticBreachProvider struct {
	Breaches []ports.Breach
	Err      error
}

func (p StaticBreachProvider) Lookup(ctx context.Context, identifier string, kind ports.IdentifierKind) ([]ports.Breach, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Breaches, nil
}

type StaticSocialProvider struct {
	Candidates []ports.SocialCandidate
	Err        error
}

func (p StaticSocialProvider) SearchPlatform(ctx context.Context, platform, name, refImageURL string) ([]ports.SocialCandidate, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Candidates, nil
}

type StaticCriminalProvider struct {
	Convictions []ports.Conviction
	Err         error
}

func (p StaticCriminalProvider) Search(ctx context.Context, name string) ([]ports.Conviction, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Convictions, nil
}

type StaticTextGenerator struct {
	Text string
	Err  error
}

func (p StaticTextGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	return p.Text, nil
}
